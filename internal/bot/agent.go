package bot

import (
	"context"

	"github.com/heroiclabs/nakama-common/runtime"

	"trix/internal/bot/advisor"
	"trix/internal/config"
	"trix/internal/domain"
)

// Agent binds one bot seat to its decision pipeline.
type Agent struct {
	UserID   string
	Seat     domain.Seat
	Pipeline *Pipeline
}

// NewAgent assembles the decision pipeline for one bot seat. The cache is
// owned by the caller (one per match); fingerprints include the acting seat,
// so sharing one cache across a match's agents is safe. The advisor service
// is optional; with no endpoint configured the agent runs on the rule-based
// brain alone.
func NewAgent(userID string, seat domain.Seat, cache *DecisionCache, logger runtime.Logger) (*Agent, error) {
	cfg := config.GetAIConfig()
	difficulty := cfg.DefaultDifficulty
	if identity, ok := GetBotConfig(userID); ok && identity.Difficulty != "" {
		difficulty = identity.Difficulty
	}

	fallback, err := NewBrain(ParseLevel(difficulty))
	if err != nil {
		return nil, err
	}

	var adv advisor.Advisor
	if cfg.Endpoint != "" {
		adv = advisor.NewHTTPAdvisor(cfg.Endpoint, cfg.Issuer, cfg.Secret)
	}

	pipeline := NewPipeline(adv, fallback, cache, difficulty, cfg.CardTimeout(), cfg.ContractTimeout(), logger)
	return &Agent{UserID: userID, Seat: seat, Pipeline: pipeline}, nil
}

// Decide resolves whatever the game is waiting on from this agent. The caller
// hands in a clone of the game; the live state may move on while this runs,
// which the caller detects with the generation counter.
func (a *Agent) Decide(ctx context.Context, game *domain.Game) (Decision, error) {
	switch game.Phase {
	case domain.PhaseContractSelection:
		if game.King != a.Seat {
			return Decision{Kind: DecisionNone}, nil
		}
		contract, err := a.Pipeline.ChooseContract(ctx, game, a.Seat)
		if err != nil {
			return Decision{}, err
		}
		return Decision{Kind: DecisionContract, Contract: contract}, nil
	case domain.PhasePlaying:
		// The double belongs to whoever holds the king, current or not, and
		// only in the window before the first card.
		if game.Contract == domain.ContractKingOfHearts && !game.Doubled &&
			len(game.CompletedTricks) == 0 && len(game.CurrentTrick.Plays) == 0 &&
			domain.ContainsCard(game.Players[a.Seat].Hand, domain.KingOfHearts) &&
			a.Pipeline.ShouldDouble(game, a.Seat) {
			return Decision{Kind: DecisionDouble}, nil
		}
		if game.Current != a.Seat {
			return Decision{Kind: DecisionNone}, nil
		}
		card, err := a.Pipeline.ChooseCard(ctx, game, a.Seat)
		if err != nil {
			return Decision{}, err
		}
		return Decision{Kind: DecisionCard, Card: card}, nil
	default:
		return Decision{Kind: DecisionNone}, nil
	}
}
