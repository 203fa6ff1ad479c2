package domain

import (
	"testing"
)

func cardSetEqual(got, want []Card) bool {
	if len(got) != len(want) {
		return false
	}
	seen := make(map[Card]bool, len(got))
	for _, c := range got {
		seen[c] = true
	}
	for _, c := range want {
		if !seen[c] {
			return false
		}
	}
	return true
}

func TestFollowSuitMoves(t *testing.T) {
	tests := []struct {
		name     string
		hand     []Card
		trick    []Play
		expected []Card
	}{
		{
			name:     "leading allows anything",
			hand:     []Card{{Hearts, Ace}, {Clubs, Two}},
			trick:    nil,
			expected: []Card{{Hearts, Ace}, {Clubs, Two}},
		},
		{
			name:     "must follow led suit",
			hand:     []Card{{Hearts, Ace}, {Hearts, Three}, {Clubs, Two}},
			trick:    []Play{{Seat: West, Card: Card{Hearts, Seven}}},
			expected: []Card{{Hearts, Ace}, {Hearts, Three}},
		},
		{
			name:     "void in led suit allows discard",
			hand:     []Card{{Spades, Queen}, {Clubs, Two}},
			trick:    []Play{{Seat: West, Card: Card{Hearts, Seven}}},
			expected: []Card{{Spades, Queen}, {Clubs, Two}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGame(DefaultRules, North)
			g.Players[North].Hand = tt.hand
			g.CurrentTrick = &Trick{Plays: tt.trick}
			got := followSuitMoves(g, North)
			if !cardSetEqual(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestTrexLegalMoves(t *testing.T) {
	tests := []struct {
		name     string
		placed   []Card
		hand     []Card
		expected []Card
	}{
		{
			name:     "only jacks on empty layout",
			placed:   nil,
			hand:     []Card{{Hearts, Jack}, {Hearts, Ten}, {Spades, Ace}},
			expected: []Card{{Hearts, Jack}},
		},
		{
			name:     "neighbors of placed run",
			placed:   []Card{{Hearts, Jack}, {Hearts, Queen}},
			hand:     []Card{{Hearts, Ten}, {Hearts, King}, {Hearts, Ace}},
			expected: []Card{{Hearts, Ten}, {Hearts, King}},
		},
		{
			name:     "gap stays illegal",
			placed:   []Card{{Hearts, Jack}, {Hearts, Five}, {Hearts, Six}},
			hand:     []Card{{Hearts, Four}, {Hearts, Nine}, {Spades, Jack}},
			expected: []Card{{Hearts, Four}, {Spades, Jack}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := NewTrexLayout()
			for _, c := range tt.placed {
				layout.Place(c)
			}
			got := layout.LegalFrom(tt.hand)
			if !cardSetEqual(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestScoreTrick(t *testing.T) {
	tests := []struct {
		name     string
		contract Contract
		doubled  bool
		plays    []Play
		expected int
	}{
		{
			name:     "king of hearts capture",
			contract: ContractKingOfHearts,
			plays: []Play{
				{North, Card{Hearts, Ace}},
				{East, Card{Hearts, King}},
				{South, Card{Hearts, Two}},
				{West, Card{Clubs, Five}},
			},
			expected: -75,
		},
		{
			name:     "king of hearts doubled",
			contract: ContractKingOfHearts,
			doubled:  true,
			plays: []Play{
				{North, Card{Hearts, Ace}},
				{East, Card{Hearts, King}},
				{South, Card{Hearts, Two}},
				{West, Card{Clubs, Five}},
			},
			expected: -150,
		},
		{
			name:     "king of hearts absent scores nothing",
			contract: ContractKingOfHearts,
			plays: []Play{
				{North, Card{Hearts, Ace}},
				{East, Card{Hearts, Queen}},
				{South, Card{Hearts, Two}},
				{West, Card{Clubs, Five}},
			},
			expected: 0,
		},
		{
			name:     "two queens in one trick",
			contract: ContractQueens,
			plays: []Play{
				{North, Card{Spades, Ace}},
				{East, Card{Spades, Queen}},
				{South, Card{Hearts, Queen}},
				{West, Card{Spades, Two}},
			},
			expected: -50,
		},
		{
			name:     "three diamonds in one trick",
			contract: ContractDiamonds,
			plays: []Play{
				{North, Card{Diamonds, Ace}},
				{East, Card{Diamonds, Two}},
				{South, Card{Diamonds, Nine}},
				{West, Card{Clubs, Five}},
			},
			expected: -30,
		},
		{
			name:     "collections charges the trick itself",
			contract: ContractCollections,
			plays: []Play{
				{North, Card{Clubs, Ace}},
				{East, Card{Clubs, Two}},
				{South, Card{Clubs, Nine}},
				{West, Card{Clubs, Five}},
			},
			expected: -15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGame(DefaultRules, North)
			g.Contract = tt.contract
			g.Doubled = tt.doubled
			trick := &Trick{Plays: tt.plays}
			trick.ResolveWinner()
			if trick.Winner != North {
				t.Fatalf("expected North to win, got %v", trick.Winner)
			}
			RulesFor(tt.contract).ScoreTrick(g, trick)
			if g.Players[North].Score != tt.expected {
				t.Errorf("expected score %d, got %d", tt.expected, g.Players[North].Score)
			}
		})
	}
}

func TestKingOfHeartsScoredOnce(t *testing.T) {
	g := NewGame(DefaultRules, North)
	g.Contract = ContractKingOfHearts
	trick := &Trick{Plays: []Play{
		{North, Card{Hearts, Ace}},
		{East, Card{Hearts, King}},
		{South, Card{Hearts, Two}},
		{West, Card{Clubs, Five}},
	}}
	trick.ResolveWinner()
	rules := RulesFor(ContractKingOfHearts)
	rules.ScoreTrick(g, trick)
	rules.ScoreTrick(g, trick)
	if g.Players[North].Score != KingOfHeartsPenalty {
		t.Errorf("expected %d after repeated scoring, got %d", KingOfHeartsPenalty, g.Players[North].Score)
	}
}

func TestTrexScoreRoundDeadlock(t *testing.T) {
	g := NewGame(DefaultRules, East)
	g.Contract = ContractTrex
	g.TrexFinished = []Seat{South}
	g.Players[North].Hand = []Card{{Clubs, Two}, {Clubs, Three}, {Clubs, Four}}
	g.Players[East].Hand = []Card{{Spades, Two}}
	g.Players[West].Hand = []Card{{Hearts, Two}}

	RulesFor(ContractTrex).ScoreRound(g)

	// South emptied first; East and West tie on one card and rank by seat
	// order from the king (East); North trails with three cards.
	expected := map[Seat]int{South: 200, East: 150, West: 100, North: 50}
	for seat, want := range expected {
		if got := g.Players[seat].Score; got != want {
			t.Errorf("seat %v: expected %d, got %d", seat, want, got)
		}
	}
}

func TestCatastrophicCard(t *testing.T) {
	card, ok := RulesFor(ContractKingOfHearts).CatastrophicCard()
	if !ok || card != KingOfHearts {
		t.Errorf("expected king of hearts, got %v ok=%v", card, ok)
	}
	for _, c := range []Contract{ContractQueens, ContractDiamonds, ContractCollections, ContractTrex} {
		if _, ok := RulesFor(c).CatastrophicCard(); ok {
			t.Errorf("contract %v should have no catastrophic card", c)
		}
	}
}
