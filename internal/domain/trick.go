package domain

// Seat is one of the four table positions, clockwise.
type Seat int

const (
	North Seat = iota
	East
	South
	West
)

// NumSeats is the table size; Trix is strictly a four-player game.
const NumSeats = 4

// Next returns the seat clockwise of s.
func (s Seat) Next() Seat {
	return (s + 1) % NumSeats
}

func (s Seat) String() string {
	switch s {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "seat?"
	}
}

// Play is one card placed into a trick by a seat.
type Play struct {
	Seat Seat `json:"seat"`
	Card Card `json:"card"`
}

// Trick is one exchange of four cards. Plays are recorded in play order.
// Once complete and scored it is frozen into the round history.
type Trick struct {
	Plays  []Play
	Winner Seat
	Scored bool
}

// LedSuit returns the suit of the first card played, if any.
func (t *Trick) LedSuit() (Suit, bool) {
	if len(t.Plays) == 0 {
		return 0, false
	}
	return t.Plays[0].Card.Suit, true
}

// Complete reports whether all four seats have played.
func (t *Trick) Complete() bool {
	return len(t.Plays) == NumSeats
}

// Contains reports whether the given card sits in this trick.
func (t *Trick) Contains(card Card) bool {
	for _, p := range t.Plays {
		if p.Card == card {
			return true
		}
	}
	return false
}

// ResolveWinner determines the seat that played the highest card of the led
// suit. It panics on an empty trick: the caller must never evaluate one.
func (t *Trick) ResolveWinner() Seat {
	if len(t.Plays) == 0 {
		panic("trix: cannot resolve winner of an empty trick")
	}
	led := t.Plays[0].Card.Suit
	best := t.Plays[0]
	for _, p := range t.Plays[1:] {
		if p.Card.Suit == led && p.Card.Rank > best.Card.Rank {
			best = p
		}
	}
	t.Winner = best.Seat
	return best.Seat
}
