package bot

import (
	"context"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"trix/internal/bot/advisor"
	botinternal "trix/internal/bot/internal"
	"trix/internal/domain"
)

// Pipeline resolves bot decisions in stages: decision cache, then the
// external reasoning service under a deadline, then the rule-based fallback.
// Every stage's output passes the safety override before it is used, and the
// bot always acts within the card timeout no matter what the service does.
type Pipeline struct {
	advisor         advisor.Advisor
	fallback        Brain
	cache           *DecisionCache
	difficulty      string
	cardTimeout     time.Duration
	contractTimeout time.Duration
	logger          runtime.Logger
}

// NewPipeline assembles a pipeline. advisor and cache may be nil, which skips
// those stages; fallback is mandatory.
func NewPipeline(adv advisor.Advisor, fallback Brain, cache *DecisionCache, difficulty string, cardTimeout, contractTimeout time.Duration, logger runtime.Logger) *Pipeline {
	return &Pipeline{
		advisor:         adv,
		fallback:        fallback,
		cache:           cache,
		difficulty:      difficulty,
		cardTimeout:     cardTimeout,
		contractTimeout: contractTimeout,
		logger:          logger,
	}
}

// ChooseCard resolves one card decision for the seat.
func (p *Pipeline) ChooseCard(ctx context.Context, game *domain.Game, seat domain.Seat) (domain.Card, error) {
	legal := game.LegalMoves(seat)
	if len(legal) == 0 {
		return domain.Card{}, errNoLegalCard
	}
	if len(legal) == 1 {
		// Forced play, catastrophic or not.
		return legal[0], nil
	}

	fp := FingerprintFor(game, seat)
	if p.cache != nil {
		if card, ok := p.cache.Get(fp); ok && domain.ContainsCard(legal, card) {
			return Override(game.Contract, card, legal), nil
		}
	}

	if p.advisor != nil {
		actx, cancel := context.WithTimeout(ctx, p.cardTimeout)
		res := p.advisor.AdviseCard(actx, p.cardRequest(game, seat, legal))
		cancel()
		if card, ok := p.acceptCard(res, legal); ok {
			card = Override(game.Contract, card, legal)
			if p.cache != nil {
				p.cache.Put(fp, card)
			}
			return card, nil
		}
	}

	card, err := p.fallback.ChooseCard(game, seat)
	if err != nil {
		return domain.Card{}, err
	}
	card = Override(game.Contract, card, legal)
	if p.cache != nil {
		p.cache.Put(fp, card)
	}
	return card, nil
}

func (p *Pipeline) acceptCard(res advisor.Result, legal []domain.Card) (domain.Card, bool) {
	if res.Status != advisor.StatusSuccess {
		p.logf("advisor card request fell through: %s (%s)", res.Status, res.Reason)
		return domain.Card{}, false
	}
	card, ok := domain.CardFromIndex(res.CardIndex)
	if !ok || !domain.ContainsCard(legal, card) {
		p.logf("advisor suggested illegal card index %d", res.CardIndex)
		return domain.Card{}, false
	}
	return card, true
}

// ChooseContract resolves the king's contract decision through the same
// stages as a card: cache, advisor, fallback.
func (p *Pipeline) ChooseContract(ctx context.Context, game *domain.Game, seat domain.Seat) (domain.Contract, error) {
	available := domain.AvailableContracts(game.Used)
	if len(available) == 1 {
		return available[0], nil
	}

	fp := FingerprintFor(game, seat)
	if p.cache != nil {
		if contract, ok := p.cache.GetContract(fp); ok && !game.Used[contract] {
			return contract, nil
		}
	}

	if p.advisor != nil {
		actx, cancel := context.WithTimeout(ctx, p.contractTimeout)
		res := p.advisor.AdviseContract(actx, p.contractRequest(game, seat, available))
		cancel()
		if res.Status == advisor.StatusSuccess {
			if contract, ok := domain.ParseContract(res.Contract); ok && !game.Used[contract] {
				if p.cache != nil {
					p.cache.PutContract(fp, contract)
				}
				return contract, nil
			}
			p.logf("advisor suggested unavailable contract %q", res.Contract)
		} else {
			p.logf("advisor contract request fell through: %s (%s)", res.Status, res.Reason)
		}
	}

	contract, err := p.fallback.ChooseContract(game, seat)
	if err != nil {
		return "", err
	}
	if p.cache != nil {
		p.cache.PutContract(fp, contract)
	}
	return contract, nil
}

// ShouldDouble is answered locally; it is a cheap boolean with no service leg.
func (p *Pipeline) ShouldDouble(game *domain.Game, seat domain.Seat) bool {
	return p.fallback.ShouldDouble(game, seat)
}

func (p *Pipeline) cardRequest(game *domain.Game, seat domain.Seat, legal []domain.Card) advisor.CardRequest {
	tricksWon := make([]int, domain.NumSeats)
	scores := make([]int, domain.NumSeats)
	for i, pl := range game.Players {
		tricksWon[i] = pl.Tricks
		scores[i] = pl.Score
	}
	return advisor.CardRequest{
		PlayerCards:    cardIndexes(game.Players[seat].Hand),
		ValidCards:     cardIndexes(legal),
		GameMode:       string(game.Contract),
		PlayedCards:    cardIndexes(game.PlayedCards()),
		CurrentPlayer:  int(seat),
		PlayerPosition: int(botinternal.DetectPosition(len(game.CurrentTrick.Plays))),
		TricksWon:      tricksWon,
		RoundNumber:    game.Round,
		TrickNumber:    len(game.CompletedTricks) + 1,
		Scores:         scores,
		Difficulty:     p.difficulty,
	}
}

func (p *Pipeline) contractRequest(game *domain.Game, seat domain.Seat, available []domain.Contract) advisor.ContractRequest {
	scores := make([]int, domain.NumSeats)
	for i, pl := range game.Players {
		scores[i] = pl.Score
	}
	names := make([]string, 0, len(available))
	for _, c := range available {
		names = append(names, string(c))
	}
	return advisor.ContractRequest{
		PlayerCards:        cardIndexes(game.Players[seat].Hand),
		AvailableContracts: names,
		Scores:             scores,
		RoundNumber:        game.Round,
		KingdomNumber:      game.Kingdom,
		Difficulty:         p.difficulty,
	}
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(format, args...)
	}
}

func cardIndexes(cards []domain.Card) []int {
	out := make([]int, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.Index())
	}
	return out
}
