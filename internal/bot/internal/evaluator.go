package internal

import (
	"trix/internal/domain"
)

// CardPenalty returns the penalty magnitude the card itself carries under the
// contract. Collections charges tricks rather than cards, so every card is
// zero there.
func CardPenalty(contract domain.Contract, card domain.Card) int {
	switch contract {
	case domain.ContractKingOfHearts:
		if card == domain.KingOfHearts {
			return -domain.KingOfHeartsPenalty
		}
	case domain.ContractQueens:
		if card.Rank == domain.Queen {
			return -domain.QueenPenalty
		}
	case domain.ContractDiamonds:
		if card.Suit == domain.Diamonds {
			return -domain.DiamondPenalty
		}
	}
	return 0
}

// TrickPenalty returns the penalty magnitude the trick's winner will be
// charged given the cards in it so far.
func TrickPenalty(contract domain.Contract, plays []domain.Play) int {
	total := 0
	if contract == domain.ContractCollections {
		total = -domain.CollectionTrickPenalty
	}
	for _, p := range plays {
		total += CardPenalty(contract, p.Card)
	}
	return total
}

// WouldWin reports whether card beats everything in the trick so far. A card
// off the led suit never wins.
func WouldWin(plays []domain.Play, card domain.Card) bool {
	if len(plays) == 0 {
		return true
	}
	led := plays[0].Card.Suit
	if card.Suit != led {
		return false
	}
	for _, p := range plays {
		if p.Card.Suit == led && p.Card.Rank >= card.Rank {
			return false
		}
	}
	return true
}

// HeldDanger rates how dangerous it is to keep holding card for later tricks.
// High cards in penalty suits are the ones that end up forced to win.
func HeldDanger(contract domain.Contract, card domain.Card) float64 {
	base := float64(CardPenalty(contract, card))
	if contract == domain.ContractKingOfHearts && card.Suit == domain.Hearts && card.Rank > domain.King {
		// An ace of hearts above the king captures it when hearts are led.
		base += float64(-domain.KingOfHeartsPenalty) * 0.5
	}
	// Rank pressure: the higher the card, the more tricks it wins unasked.
	return base + float64(card.Rank-domain.Two)*0.5
}

// PhaseWeights tunes the fallback card scoring for one game phase.
type PhaseWeights struct {
	// PenaltyWeight is cost per pending penalty point when capturing a trick.
	PenaltyWeight float64
	// WinWeight is the flat cost of capturing any trick.
	WinWeight float64
	// DumpBonus rewards discarding dangerous holdings while void.
	DumpBonus float64
	// HighCardCost discourages spending high ranks without need.
	HighCardCost float64
	// UnlockWeight rewards Trex placements adjacent to own holdings.
	UnlockWeight float64
	// FeedCost penalizes Trex placements that mostly free the opponents.
	FeedCost float64
}

// BotTuning carries the per-phase weights of one fallback profile.
type BotTuning struct {
	Early PhaseWeights
	Mid   PhaseWeights
	End   PhaseWeights
	// DoubleMinHearts is the minimum heart count behind the King of Hearts
	// before the profile is willing to double.
	DoubleMinHearts int
}

// ForPhase selects the weights for the given phase.
func (t BotTuning) ForPhase(p GamePhase) PhaseWeights {
	switch p {
	case PhaseEarly:
		return t.Early
	case PhaseMid:
		return t.Mid
	default:
		return t.End
	}
}

// TrexUnlocks counts own cards that become legal once card is placed.
func TrexUnlocks(layout *domain.TrexLayout, hand []domain.Card, card domain.Card) int {
	next := domain.NewTrexLayout()
	for s := domain.Clubs; s <= domain.Spades; s++ {
		for _, r := range layout.PlacedRanks(s) {
			next.Place(domain.Card{Suit: s, Rank: r})
		}
	}
	next.Place(card)
	unlocked := 0
	for _, c := range hand {
		if c == card {
			continue
		}
		if !layout.IsLegal(c) && next.IsLegal(c) {
			unlocked++
		}
	}
	return unlocked
}
