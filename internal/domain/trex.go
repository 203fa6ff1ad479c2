package domain

// TrexLayout is the shared table layout of a Trex round. Jacks anchor a suit;
// other cards extend the suit's run by rank adjacency.
type TrexLayout struct {
	played [NumSeats]map[Rank]bool // indexed by Suit
}

// NewTrexLayout returns an empty layout.
func NewTrexLayout() *TrexLayout {
	l := &TrexLayout{}
	for s := range l.played {
		l.played[s] = make(map[Rank]bool)
	}
	return l
}

// Clone returns an independent copy of the layout.
func (l *TrexLayout) Clone() *TrexLayout {
	c := NewTrexLayout()
	for s := range l.played {
		for r, v := range l.played[s] {
			c.played[s][r] = v
		}
	}
	return c
}

// IsLegal reports whether card may be placed on the layout. A Jack always may;
// any other card needs an already-placed same-suit card one rank away.
func (l *TrexLayout) IsLegal(card Card) bool {
	if card.Rank == Jack {
		return true
	}
	suit := l.played[card.Suit]
	return suit[card.Rank-1] || suit[card.Rank+1]
}

// Place commits a card to the layout. Legality is the caller's concern.
func (l *TrexLayout) Place(card Card) {
	l.played[card.Suit][card.Rank] = true
}

// Placed reports whether the exact card value has been placed.
func (l *TrexLayout) Placed(card Card) bool {
	return l.played[card.Suit][card.Rank]
}

// PlacedRanks returns the placed ranks of a suit in ascending order.
func (l *TrexLayout) PlacedRanks(suit Suit) []Rank {
	out := make([]Rank, 0, 13)
	for r := Two; r <= Ace; r++ {
		if l.played[suit][r] {
			out = append(out, r)
		}
	}
	return out
}

// LegalFrom filters hand down to the cards the layout accepts.
func (l *TrexLayout) LegalFrom(hand []Card) []Card {
	out := make([]Card, 0, len(hand))
	for _, c := range hand {
		if l.IsLegal(c) {
			out = append(out, c)
		}
	}
	return out
}
