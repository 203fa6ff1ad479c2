package internal

import (
	"testing"

	"trix/internal/domain"
)

func TestDetectPhase(t *testing.T) {
	tests := []struct {
		trick    int
		expected GamePhase
	}{
		{1, PhaseEarly},
		{4, PhaseEarly},
		{5, PhaseMid},
		{9, PhaseMid},
		{10, PhaseEnd},
		{13, PhaseEnd},
	}
	for _, tt := range tests {
		if got := DetectPhase(tt.trick); got != tt.expected {
			t.Errorf("trick %d: phase = %v, want %v", tt.trick, got, tt.expected)
		}
	}
}

func TestTrickPenalty(t *testing.T) {
	plays := []domain.Play{
		{Seat: domain.North, Card: domain.Card{Suit: domain.Hearts, Rank: domain.King}},
		{Seat: domain.East, Card: domain.Card{Suit: domain.Diamonds, Rank: domain.Two}},
		{Seat: domain.South, Card: domain.Card{Suit: domain.Spades, Rank: domain.Queen}},
	}
	tests := []struct {
		contract domain.Contract
		expected int
	}{
		{domain.ContractKingOfHearts, 75},
		{domain.ContractQueens, 25},
		{domain.ContractDiamonds, 10},
		{domain.ContractCollections, 15},
		{domain.ContractTrex, 0},
	}
	for _, tt := range tests {
		if got := TrickPenalty(tt.contract, plays); got != tt.expected {
			t.Errorf("%s: penalty = %d, want %d", tt.contract, got, tt.expected)
		}
	}
}

func TestWouldWin(t *testing.T) {
	plays := []domain.Play{
		{Seat: domain.North, Card: domain.Card{Suit: domain.Clubs, Rank: domain.Ten}},
		{Seat: domain.East, Card: domain.Card{Suit: domain.Hearts, Rank: domain.Ace}},
	}
	if !WouldWin(plays, domain.Card{Suit: domain.Clubs, Rank: domain.Jack}) {
		t.Error("jack of clubs should beat the ten")
	}
	if WouldWin(plays, domain.Card{Suit: domain.Clubs, Rank: domain.Nine}) {
		t.Error("nine of clubs loses to the ten")
	}
	if WouldWin(plays, domain.Card{Suit: domain.Spades, Rank: domain.Ace}) {
		t.Error("off-suit ace never wins")
	}
	if !WouldWin(nil, domain.Card{Suit: domain.Clubs, Rank: domain.Two}) {
		t.Error("any lead wins an empty trick")
	}
}

func TestTrexUnlocks(t *testing.T) {
	layout := domain.NewTrexLayout()
	layout.Place(domain.Card{Suit: domain.Hearts, Rank: domain.Jack})
	hand := []domain.Card{
		{Suit: domain.Hearts, Rank: domain.Queen},
		{Suit: domain.Hearts, Rank: domain.King},
		{Suit: domain.Spades, Rank: domain.Two},
	}
	// Placing the queen makes the king legal.
	if got := TrexUnlocks(layout, hand, domain.Card{Suit: domain.Hearts, Rank: domain.Queen}); got != 1 {
		t.Errorf("unlocks = %d, want 1", got)
	}
	// Placing the ten of hearts from the table-side frees nothing we hold.
	if got := TrexUnlocks(layout, hand, domain.Card{Suit: domain.Hearts, Rank: domain.Ten}); got != 0 {
		t.Errorf("unlocks = %d, want 0", got)
	}
}
