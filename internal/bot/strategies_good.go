package bot

import (
	"errors"
	"sort"

	botinternal "trix/internal/bot/internal"
	"trix/internal/domain"
)

var errNoLegalCard = errors.New("no legal card to choose from")

// GoodBot is the conservative tier: duck tricks, dump danger when void, never
// double. It looks at nothing beyond the current trick.
type GoodBot struct{}

func (b *GoodBot) ChooseCard(game *domain.Game, seat domain.Seat) (domain.Card, error) {
	legal := game.LegalMoves(seat)
	if len(legal) == 0 {
		return domain.Card{}, errNoLegalCard
	}
	if game.Contract == domain.ContractTrex {
		// Lowest card first keeps long suits flowing from the bottom.
		return lowestCard(legal), nil
	}

	plays := game.CurrentTrick.Plays
	losing := make([]domain.Card, 0, len(legal))
	for _, c := range legal {
		if !botinternal.WouldWin(plays, c) {
			losing = append(losing, c)
		}
	}
	if len(losing) > 0 {
		// Duck with the most dangerous card that still loses.
		best := losing[0]
		for _, c := range losing[1:] {
			if botinternal.HeldDanger(game.Contract, c) > botinternal.HeldDanger(game.Contract, best) {
				best = c
			}
		}
		return best, nil
	}
	// Forced to win: do it as cheaply as possible.
	return lowestCard(legal), nil
}

func (b *GoodBot) ChooseContract(game *domain.Game, seat domain.Seat) (domain.Contract, error) {
	return lowestRiskContract(game, seat)
}

func (b *GoodBot) ShouldDouble(*domain.Game, domain.Seat) bool { return false }

// lowestCard picks the minimum by rank, suit order breaking ties.
func lowestCard(cards []domain.Card) domain.Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if c.Rank < best.Rank || (c.Rank == best.Rank && c.Suit < best.Suit) {
			best = c
		}
	}
	return best
}

// lowestRiskContract estimates the expected damage of each available contract
// for the hand and picks the cheapest.
func lowestRiskContract(game *domain.Game, seat domain.Seat) (domain.Contract, error) {
	available := domain.AvailableContracts(game.Used)
	if len(available) == 0 {
		return "", errors.New("no contract available")
	}
	hand := game.Players[seat].Hand
	sort.SliceStable(available, func(i, j int) bool {
		return contractRisk(available[i], hand) < contractRisk(available[j], hand)
	})
	return available[0], nil
}

// contractRisk scores how costly a contract looks for the hand. Lower is
// better; Trex goes negative when the hand is built for it.
func contractRisk(contract domain.Contract, hand []domain.Card) float64 {
	switch contract {
	case domain.ContractKingOfHearts:
		risk := 0.0
		if domain.ContainsCard(hand, domain.KingOfHearts) {
			guards := domain.CountSuit(hand, domain.Hearts) - 1
			risk += 40.0 - float64(guards)*5.0
		}
		for _, c := range hand {
			if c.Suit == domain.Hearts && c.Rank > domain.King {
				risk += 15.0
			}
		}
		return risk
	case domain.ContractQueens:
		risk := 0.0
		for _, c := range hand {
			if c.Rank == domain.Queen {
				risk += 18.0
			}
			if c.Rank > domain.Queen {
				risk += 3.0
			}
		}
		return risk
	case domain.ContractDiamonds:
		risk := float64(domain.CountSuit(hand, domain.Diamonds)) * 6.0
		for _, c := range hand {
			if c.Rank >= domain.Jack {
				risk += 2.0
			}
		}
		return risk
	case domain.ContractCollections:
		risk := 0.0
		for _, c := range hand {
			risk += float64(c.Rank-domain.Two) * 0.6
		}
		return risk
	case domain.ContractTrex:
		risk := 50.0
		for _, c := range hand {
			if c.Rank == domain.Jack {
				risk -= 25.0
			}
		}
		// Connected holdings empty fast.
		for _, c := range hand {
			if domain.ContainsCard(hand, domain.Card{Suit: c.Suit, Rank: c.Rank + 1}) {
				risk -= 2.0
			}
		}
		return risk
	default:
		return 1000.0
	}
}
