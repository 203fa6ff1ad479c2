package bot

import (
	"context"
	"testing"
	"time"

	"trix/internal/bot/advisor"
	"trix/internal/domain"
)

// fakeAdvisor returns canned results and counts calls.
type fakeAdvisor struct {
	cardResult     advisor.Result
	contractResult advisor.Result
	cardCalls      int
	contractCalls  int
	lastCard       advisor.CardRequest
}

func (f *fakeAdvisor) AdviseCard(_ context.Context, req advisor.CardRequest) advisor.Result {
	f.cardCalls++
	f.lastCard = req
	return f.cardResult
}

func (f *fakeAdvisor) AdviseContract(context.Context, advisor.ContractRequest) advisor.Result {
	f.contractCalls++
	return f.contractResult
}

func kohTestGame() *domain.Game {
	g := playingGame(domain.ContractKingOfHearts)
	g.Current = domain.North
	g.Players[domain.North].Hand = []domain.Card{
		domain.KingOfHearts,
		{Suit: domain.Hearts, Rank: domain.Five},
		{Suit: domain.Hearts, Rank: domain.Nine},
	}
	return g
}

func newTestPipeline(adv advisor.Advisor, cache *DecisionCache) *Pipeline {
	return NewPipeline(adv, &GoodBot{}, cache, "medium", time.Second, time.Second, nil)
}

func TestPipelineUsesAdvisorSuggestion(t *testing.T) {
	g := kohTestGame()
	suggestion := domain.Card{Suit: domain.Hearts, Rank: domain.Nine}
	adv := &fakeAdvisor{cardResult: advisor.Result{Status: advisor.StatusSuccess, CardIndex: suggestion.Index()}}

	p := newTestPipeline(adv, nil)
	card, err := p.ChooseCard(context.Background(), g, domain.North)
	if err != nil {
		t.Fatalf("choose error: %v", err)
	}
	if card != suggestion {
		t.Errorf("card = %v, want %v", card, suggestion)
	}
	if adv.lastCard.GameMode != "king_of_hearts" {
		t.Errorf("game_mode = %s", adv.lastCard.GameMode)
	}
	if len(adv.lastCard.ValidCards) != 3 {
		t.Errorf("valid_cards = %v", adv.lastCard.ValidCards)
	}
}

func TestPipelineOverridesCatastrophicSuggestion(t *testing.T) {
	g := kohTestGame()
	adv := &fakeAdvisor{cardResult: advisor.Result{Status: advisor.StatusSuccess, CardIndex: domain.KingOfHearts.Index()}}

	p := newTestPipeline(adv, nil)
	card, err := p.ChooseCard(context.Background(), g, domain.North)
	if err != nil {
		t.Fatalf("choose error: %v", err)
	}
	expected := domain.Card{Suit: domain.Hearts, Rank: domain.Five}
	if card != expected {
		t.Errorf("card = %v, want guard replacement %v", card, expected)
	}
}

func TestPipelineFallsBackOnBadResults(t *testing.T) {
	g := kohTestGame()
	tests := []struct {
		name   string
		result advisor.Result
	}{
		{"timeout", advisor.Result{Status: advisor.StatusTimeout}},
		{"transport error", advisor.Result{Status: advisor.StatusTransportError}},
		{"invalid payload", advisor.Result{Status: advisor.StatusInvalid}},
		{"illegal card", advisor.Result{Status: advisor.StatusSuccess, CardIndex: (domain.Card{Suit: domain.Clubs, Rank: domain.Two}).Index()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPipeline(&fakeAdvisor{cardResult: tt.result}, nil)
			card, err := p.ChooseCard(context.Background(), g, domain.North)
			if err != nil {
				t.Fatalf("choose error: %v", err)
			}
			if !domain.ContainsCard(g.LegalMoves(domain.North), card) {
				t.Fatalf("fallback produced illegal card %v", card)
			}
			if card == domain.KingOfHearts {
				t.Fatal("fallback result must pass the guard")
			}
		})
	}
}

func TestPipelineForcedSingleCardSkipsEverything(t *testing.T) {
	g := playingGame(domain.ContractKingOfHearts)
	g.CurrentTrick.Plays = []domain.Play{
		{Seat: domain.West, Card: domain.Card{Suit: domain.Hearts, Rank: domain.Two}},
	}
	g.Current = domain.North
	g.Players[domain.North].Hand = []domain.Card{domain.KingOfHearts, {Suit: domain.Clubs, Rank: domain.Two}}

	adv := &fakeAdvisor{}
	p := newTestPipeline(adv, nil)
	card, err := p.ChooseCard(context.Background(), g, domain.North)
	if err != nil {
		t.Fatalf("choose error: %v", err)
	}
	if card != domain.KingOfHearts {
		t.Errorf("card = %v, want the forced king", card)
	}
	if adv.cardCalls != 0 {
		t.Errorf("advisor called %d times for a forced play", adv.cardCalls)
	}
}

func TestPipelineCacheShortCircuitsAdvisor(t *testing.T) {
	g := kohTestGame()
	suggestion := domain.Card{Suit: domain.Hearts, Rank: domain.Nine}
	adv := &fakeAdvisor{cardResult: advisor.Result{Status: advisor.StatusSuccess, CardIndex: suggestion.Index()}}
	cache := NewDecisionCache(time.Minute, 16)

	p := newTestPipeline(adv, cache)
	first, err := p.ChooseCard(context.Background(), g, domain.North)
	if err != nil {
		t.Fatalf("choose error: %v", err)
	}
	second, err := p.ChooseCard(context.Background(), g, domain.North)
	if err != nil {
		t.Fatalf("choose error: %v", err)
	}
	if first != second {
		t.Fatalf("cache returned %v after %v", second, first)
	}
	if adv.cardCalls != 1 {
		t.Fatalf("advisor calls = %d, want 1", adv.cardCalls)
	}
}

func TestPipelineContractCacheShortCircuitsAdvisor(t *testing.T) {
	g := domain.NewGame(domain.DefaultRules, domain.North)
	g.Players[domain.North].Hand = []domain.Card{
		{Suit: domain.Clubs, Rank: domain.Two},
		{Suit: domain.Clubs, Rank: domain.Three},
	}
	adv := &fakeAdvisor{contractResult: advisor.Result{Status: advisor.StatusSuccess, Contract: "queens"}}
	cache := NewDecisionCache(time.Minute, 16)

	p := newTestPipeline(adv, cache)
	first, err := p.ChooseContract(context.Background(), g, domain.North)
	if err != nil {
		t.Fatalf("choose error: %v", err)
	}
	second, err := p.ChooseContract(context.Background(), g, domain.North)
	if err != nil {
		t.Fatalf("choose error: %v", err)
	}
	if first != second {
		t.Fatalf("cache returned %v after %v", second, first)
	}
	if adv.contractCalls != 1 {
		t.Fatalf("advisor calls = %d, want 1", adv.contractCalls)
	}
}

func TestPipelineChooseContract(t *testing.T) {
	g := domain.NewGame(domain.DefaultRules, domain.North)
	g.Players[domain.North].Hand = []domain.Card{
		{Suit: domain.Clubs, Rank: domain.Two},
		{Suit: domain.Clubs, Rank: domain.Three},
	}

	t.Run("advisor suggestion honored", func(t *testing.T) {
		adv := &fakeAdvisor{contractResult: advisor.Result{Status: advisor.StatusSuccess, Contract: "diamonds"}}
		p := newTestPipeline(adv, nil)
		contract, err := p.ChooseContract(context.Background(), g, domain.North)
		if err != nil {
			t.Fatalf("choose error: %v", err)
		}
		if contract != domain.ContractDiamonds {
			t.Errorf("contract = %v, want diamonds", contract)
		}
	})

	t.Run("used contract falls back", func(t *testing.T) {
		g2 := g.Clone()
		g2.Used[domain.ContractDiamonds] = true
		adv := &fakeAdvisor{contractResult: advisor.Result{Status: advisor.StatusSuccess, Contract: "diamonds"}}
		p := newTestPipeline(adv, nil)
		contract, err := p.ChooseContract(context.Background(), g2, domain.North)
		if err != nil {
			t.Fatalf("choose error: %v", err)
		}
		if g2.Used[contract] {
			t.Errorf("contract %v is already used", contract)
		}
	})

	t.Run("single remaining contract is forced", func(t *testing.T) {
		g3 := g.Clone()
		for _, c := range domain.AllContracts[:len(domain.AllContracts)-1] {
			g3.Used[c] = true
		}
		adv := &fakeAdvisor{}
		p := newTestPipeline(adv, nil)
		contract, err := p.ChooseContract(context.Background(), g3, domain.North)
		if err != nil {
			t.Fatalf("choose error: %v", err)
		}
		if contract != domain.ContractTrex {
			t.Errorf("contract = %v, want trex", contract)
		}
		if adv.contractCalls != 0 {
			t.Errorf("advisor consulted for a forced contract")
		}
	})
}
