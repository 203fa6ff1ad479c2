package domain

import "fmt"

// Penalty and bonus values, per contract. Negative values are penalties
// charged to the seat that captures the cards or tricks.
const (
	KingOfHeartsPenalty    = -75
	QueenPenalty           = -25
	DiamondPenalty         = -10
	CollectionTrickPenalty = -15
)

// TrexBonuses rewards Trex finish order: first seat to empty its hand earns
// the top bonus, stragglers the bottom tier.
var TrexBonuses = [NumSeats]int{200, 150, 100, 50}

// ContractRules bundles the per-contract behavior the engine, scorer, and bot
// fallback all dispatch through: move legality, scoring, and the contract's
// catastrophic card if it has one.
type ContractRules interface {
	Contract() Contract

	// LegalMoves returns every card seat may play right now. An empty result
	// with a non-empty hand means the seat must pass; only Trex produces that.
	LegalMoves(g *Game, seat Seat) []Card

	// ScoreTrick charges the completed trick to its winner. Called exactly
	// once per trick; a no-op for contracts scored at round end.
	ScoreTrick(g *Game, t *Trick)

	// ScoreRound applies round-end scoring. A no-op for contracts fully
	// settled trick by trick.
	ScoreRound(g *Game)

	// CatastrophicCard names the single card whose capture carries an
	// outsized penalty, if the contract has one.
	CatastrophicCard() (Card, bool)
}

var rulesTable = map[Contract]ContractRules{
	ContractKingOfHearts: kingOfHeartsRules{},
	ContractQueens:       queensRules{},
	ContractDiamonds:     diamondsRules{},
	ContractCollections:  collectionsRules{},
	ContractTrex:         trexRules{},
}

// RulesFor returns the rules for the given contract. It panics on an unknown
// contract: contracts only enter a Game through ParseContract or AllContracts.
func RulesFor(c Contract) ContractRules {
	r, ok := rulesTable[c]
	if !ok {
		panic(fmt.Sprintf("trix: no rules for contract %q", c))
	}
	return r
}

// followSuitMoves implements the standard trick rule: follow the led suit when
// holding it, otherwise anything; when leading, anything.
func followSuitMoves(g *Game, seat Seat) []Card {
	hand := g.Players[seat].Hand
	if len(hand) == 0 {
		panic(fmt.Sprintf("trix: %s asked to move with an empty hand", seat))
	}
	led, ok := g.CurrentTrick.LedSuit()
	if !ok || !HasSuit(hand, led) {
		out := make([]Card, len(hand))
		copy(out, hand)
		return out
	}
	out := make([]Card, 0, len(hand))
	for _, c := range hand {
		if c.Suit == led {
			out = append(out, c)
		}
	}
	return out
}

type kingOfHeartsRules struct{}

func (kingOfHeartsRules) Contract() Contract { return ContractKingOfHearts }

func (kingOfHeartsRules) LegalMoves(g *Game, seat Seat) []Card {
	return followSuitMoves(g, seat)
}

func (kingOfHeartsRules) ScoreTrick(g *Game, t *Trick) {
	if !t.Contains(KingOfHearts) || g.KingOfHeartsScored {
		return
	}
	penalty := KingOfHeartsPenalty
	if g.Doubled {
		penalty *= 2
	}
	g.Players[t.Winner].Score += penalty
	g.KingOfHeartsScored = true
}

func (kingOfHeartsRules) ScoreRound(*Game) {}

func (kingOfHeartsRules) CatastrophicCard() (Card, bool) {
	return KingOfHearts, true
}

type queensRules struct{}

func (queensRules) Contract() Contract { return ContractQueens }

func (queensRules) LegalMoves(g *Game, seat Seat) []Card {
	return followSuitMoves(g, seat)
}

func (queensRules) ScoreTrick(g *Game, t *Trick) {
	for _, p := range t.Plays {
		if p.Card.Rank == Queen {
			g.Players[t.Winner].Score += QueenPenalty
		}
	}
}

func (queensRules) ScoreRound(*Game) {}

func (queensRules) CatastrophicCard() (Card, bool) { return Card{}, false }

type diamondsRules struct{}

func (diamondsRules) Contract() Contract { return ContractDiamonds }

func (diamondsRules) LegalMoves(g *Game, seat Seat) []Card {
	return followSuitMoves(g, seat)
}

func (diamondsRules) ScoreTrick(g *Game, t *Trick) {
	for _, p := range t.Plays {
		if p.Card.Suit == Diamonds {
			g.Players[t.Winner].Score += DiamondPenalty
		}
	}
}

func (diamondsRules) ScoreRound(*Game) {}

func (diamondsRules) CatastrophicCard() (Card, bool) { return Card{}, false }

type collectionsRules struct{}

func (collectionsRules) Contract() Contract { return ContractCollections }

func (collectionsRules) LegalMoves(g *Game, seat Seat) []Card {
	return followSuitMoves(g, seat)
}

func (collectionsRules) ScoreTrick(g *Game, t *Trick) {
	g.Players[t.Winner].Score += CollectionTrickPenalty
}

func (collectionsRules) ScoreRound(*Game) {}

func (collectionsRules) CatastrophicCard() (Card, bool) { return Card{}, false }

type trexRules struct{}

func (trexRules) Contract() Contract { return ContractTrex }

func (trexRules) LegalMoves(g *Game, seat Seat) []Card {
	return g.Trex.LegalFrom(g.Players[seat].Hand)
}

func (trexRules) ScoreTrick(*Game, *Trick) {}

// ScoreRound hands out finish bonuses. Seats that emptied their hands take the
// top tiers in finish order; on deadlock the seats still holding cards share
// the remaining tiers, ranked by fewest cards left, then seat order from the
// king.
func (trexRules) ScoreRound(g *Game) {
	order := append([]Seat(nil), g.TrexFinished...)
	tail := len(order)
	for _, seat := range g.seatsFromKing() {
		p := g.Players[seat]
		if len(p.Hand) > 0 && !containsSeat(order, seat) {
			order = insertByHandSize(order, seat, g, tail)
		}
	}
	for i, seat := range order {
		if i < len(TrexBonuses) {
			g.Players[seat].Score += TrexBonuses[i]
		}
	}
}

func (trexRules) CatastrophicCard() (Card, bool) { return Card{}, false }

func containsSeat(seats []Seat, seat Seat) bool {
	for _, s := range seats {
		if s == seat {
			return true
		}
	}
	return false
}

// insertByHandSize slots a stuck seat into the tail of the finish order,
// keeping the tail sorted by ascending hand size. from marks where the tail
// begins; everything before it emptied its hand properly.
func insertByHandSize(order []Seat, seat Seat, g *Game, from int) []Seat {
	pos := len(order)
	for i := from; i < len(order); i++ {
		if len(g.Players[order[i]].Hand) > len(g.Players[seat].Hand) {
			pos = i
			break
		}
	}
	order = append(order, Seat(0))
	copy(order[pos+1:], order[pos:])
	order[pos] = seat
	return order
}
