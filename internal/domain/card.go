package domain

import (
	"fmt"
	"math/rand"
	"sort"
)

// Suit identifies one of the four French suits. The numeric order matches the
// 0-51 card indexing used on the wire: clubs first, spades last.
type Suit int

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// Rank is the face value of a card. Two is lowest, Ace is highest.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Card is an immutable playing-card value.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// KingOfHearts is the catastrophic card of the king_of_hearts contract.
var KingOfHearts = Card{Suit: Hearts, Rank: King}

// Index maps the card onto 0..51: clubs 0-12, diamonds 13-25, hearts 26-38,
// spades 39-51, with rank 0 = Two .. 12 = Ace inside each suit block. This is
// the indexing the reasoning provider speaks.
func (c Card) Index() int {
	return int(c.Suit)*13 + int(c.Rank) - 2
}

// CardFromIndex is the inverse of Index. It returns false for out-of-range input.
func CardFromIndex(idx int) (Card, bool) {
	if idx < 0 || idx > 51 {
		return Card{}, false
	}
	return Card{Suit: Suit(idx / 13), Rank: Rank(idx%13 + 2)}, true
}

func (s Suit) String() string {
	switch s {
	case Clubs:
		return "clubs"
	case Diamonds:
		return "diamonds"
	case Hearts:
		return "hearts"
	case Spades:
		return "spades"
	default:
		return fmt.Sprintf("suit(%d)", int(s))
	}
}

func (r Rank) String() string {
	switch r {
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		return fmt.Sprintf("%d", int(r))
	}
}

func (c Card) String() string {
	suits := [...]string{"C", "D", "H", "S"}
	if c.Suit < Clubs || c.Suit > Spades {
		return fmt.Sprintf("?%s", c.Rank)
	}
	return fmt.Sprintf("%s%s", c.Rank, suits[c.Suit])
}

// NewDeck returns the ordered 52-card deck.
func NewDeck() []Card {
	deck := make([]Card, 0, 52)
	for s := Clubs; s <= Spades; s++ {
		for r := Two; r <= Ace; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// ShuffleDeck shuffles in place with the provided source.
func ShuffleDeck(deck []Card, rng *rand.Rand) {
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
}

// SortHand orders cards by suit, then ascending rank.
func SortHand(cards []Card) {
	sort.Slice(cards, func(i, j int) bool {
		return cards[i].Index() < cards[j].Index()
	})
}

// RemoveCard returns hand without the first occurrence of card.
func RemoveCard(hand []Card, card Card) []Card {
	out := make([]Card, 0, len(hand))
	removed := false
	for _, c := range hand {
		if !removed && c == card {
			removed = true
			continue
		}
		out = append(out, c)
	}
	return out
}

// ContainsCard reports whether hand holds card.
func ContainsCard(hand []Card, card Card) bool {
	for _, c := range hand {
		if c == card {
			return true
		}
	}
	return false
}

// HasSuit reports whether hand holds at least one card of the given suit.
func HasSuit(hand []Card, suit Suit) bool {
	for _, c := range hand {
		if c.Suit == suit {
			return true
		}
	}
	return false
}

// CountSuit returns how many cards of the given suit the hand holds.
func CountSuit(hand []Card, suit Suit) int {
	n := 0
	for _, c := range hand {
		if c.Suit == suit {
			n++
		}
	}
	return n
}
