package bot

import (
	botinternal "trix/internal/bot/internal"
	"trix/internal/bot/brain"
	"trix/internal/domain"
)

// SmartBot scores every legal card with phase-aware weights. Deep mode adds
// card memory: boss detection and opponent suit voids sharpen the win risk.
type SmartBot struct {
	Tuning botinternal.BotTuning
	Deep   bool
}

func (b *SmartBot) ChooseCard(game *domain.Game, seat domain.Seat) (domain.Card, error) {
	legal := game.LegalMoves(seat)
	if len(legal) == 0 {
		return domain.Card{}, errNoLegalCard
	}

	phase := botinternal.DetectPhase(len(game.CompletedTricks) + 1)
	weights := b.Tuning.ForPhase(phase)

	if game.Contract == domain.ContractTrex {
		return b.chooseTrexCard(game, seat, legal, weights), nil
	}

	var mem *brain.GameMemory
	if b.Deep {
		mem = brain.BuildMemory(game, seat)
	}

	best := legal[0]
	bestScore := b.scoreCard(game, mem, legal[0], weights)
	for _, c := range legal[1:] {
		if score := b.scoreCard(game, mem, c, weights); score > bestScore {
			best, bestScore = c, score
		}
	}
	return best, nil
}

// scoreCard rates one candidate; higher is better.
func (b *SmartBot) scoreCard(game *domain.Game, mem *brain.GameMemory, card domain.Card, w botinternal.PhaseWeights) float64 {
	plays := game.CurrentTrick.Plays
	position := botinternal.DetectPosition(len(plays))
	pending := botinternal.TrickPenalty(game.Contract, plays) + botinternal.CardPenalty(game.Contract, card)
	wins := botinternal.WouldWin(plays, card)
	if wins && len(plays) > 0 && position != botinternal.PositionLate && mem != nil {
		// Seats behind us may still overtake; a boss card will not be saved.
		if !mem.IsBoss(card) && pending == 0 {
			wins = false
		}
	}

	score := 0.0
	if wins {
		score -= w.WinWeight + w.PenaltyWeight*float64(pending)
		if position == botinternal.PositionLate && pending == 0 {
			// Closing a clean trick costs nothing but the lead.
			score += w.WinWeight * 0.7
		}
		score -= w.HighCardCost * float64(card.Rank-domain.Two)
	} else {
		score += w.DumpBonus * botinternal.HeldDanger(game.Contract, card)
	}
	return score
}

// chooseTrexCard prefers placements that free its own cards over placements
// that mostly feed the table.
func (b *SmartBot) chooseTrexCard(game *domain.Game, seat domain.Seat, legal []domain.Card, w botinternal.PhaseWeights) domain.Card {
	hand := game.Players[seat].Hand
	best := legal[0]
	bestScore := -1e9
	for _, c := range legal {
		unlocks := botinternal.TrexUnlocks(game.Trex, hand, c)
		score := w.UnlockWeight * float64(unlocks)
		if unlocks == 0 && c.Rank != domain.Jack {
			score -= w.FeedCost
		}
		// Prefer emptying from the bottom of runs.
		score -= float64(c.Rank-domain.Two) * 0.1
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}

func (b *SmartBot) ChooseContract(game *domain.Game, seat domain.Seat) (domain.Contract, error) {
	return lowestRiskContract(game, seat)
}

// ShouldDouble doubles only behind enough protecting hearts: the king needs
// low cards under it so the holder is never forced to win a hearts lead.
func (b *SmartBot) ShouldDouble(game *domain.Game, seat domain.Seat) bool {
	hand := game.Players[seat].Hand
	if !domain.ContainsCard(hand, domain.KingOfHearts) {
		return false
	}
	lowHearts := 0
	for _, c := range hand {
		if c.Suit == domain.Hearts && c.Rank < domain.King {
			lowHearts++
		}
	}
	return lowHearts+1 >= b.Tuning.DoubleMinHearts
}
