package brain

import (
	"trix/internal/domain"
)

// CardStatus represents what the bot knows about a specific card.
type CardStatus int

const (
	StatusUnknown  CardStatus = iota // somewhere in an opponent hand
	StatusMine                       // in the bot's hand
	StatusPlayed                     // already on the table
)

// GameMemory is the bot's private view of one round. It is rebuilt from the
// authoritative game state on every decision, so it never drifts and nothing
// has to survive across ticks.
type GameMemory struct {
	// DeckStatus tracks all 52 cards by domain card index.
	DeckStatus [52]CardStatus
	// Voids records suits an opponent seat has shown itself out of.
	Voids [domain.NumSeats][4]bool
	Seat  domain.Seat
}

// BuildMemory derives a fresh memory for the given seat from the game.
func BuildMemory(g *domain.Game, seat domain.Seat) *GameMemory {
	m := &GameMemory{Seat: seat}
	for _, c := range g.Players[seat].Hand {
		m.DeckStatus[c.Index()] = StatusMine
	}
	for _, c := range g.PlayedCards() {
		m.DeckStatus[c.Index()] = StatusPlayed
	}
	for i := range g.CompletedTricks {
		m.recordTrick(&g.CompletedTricks[i])
	}
	if g.CurrentTrick != nil && len(g.CurrentTrick.Plays) > 0 {
		m.recordFollows(g.CurrentTrick.Plays)
	}
	return m
}

// recordTrick notes suit voids shown by seats that could not follow.
func (m *GameMemory) recordTrick(t *domain.Trick) {
	m.recordFollows(t.Plays)
}

func (m *GameMemory) recordFollows(plays []domain.Play) {
	if len(plays) == 0 {
		return
	}
	led := plays[0].Card.Suit
	for _, p := range plays[1:] {
		if p.Card.Suit != led {
			m.Voids[p.Seat][led] = true
		}
	}
}

// IsPlayed reports whether the card is already out of the round.
func (m *GameMemory) IsPlayed(c domain.Card) bool {
	return m.DeckStatus[c.Index()] == StatusPlayed
}

// IsVoid reports whether seat has shown itself out of suit.
func (m *GameMemory) IsVoid(seat domain.Seat, suit domain.Suit) bool {
	return m.Voids[seat][suit]
}

// OutstandingInSuit counts cards of the suit still hidden in opponent hands.
func (m *GameMemory) OutstandingInSuit(suit domain.Suit) int {
	n := 0
	for r := domain.Two; r <= domain.Ace; r++ {
		if m.DeckStatus[(domain.Card{Suit: suit, Rank: r}).Index()] == StatusUnknown {
			n++
		}
	}
	return n
}

// HigherOutstanding counts hidden cards of the same suit above c.
func (m *GameMemory) HigherOutstanding(c domain.Card) int {
	n := 0
	for r := c.Rank + 1; r <= domain.Ace; r++ {
		if m.DeckStatus[(domain.Card{Suit: c.Suit, Rank: r}).Index()] == StatusUnknown {
			n++
		}
	}
	return n
}

// IsBoss reports whether no hidden card of the suit outranks c.
func (m *GameMemory) IsBoss(c domain.Card) bool {
	return m.HigherOutstanding(c) == 0
}
