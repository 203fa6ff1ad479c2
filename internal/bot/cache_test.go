package bot

import (
	"testing"
	"time"

	"trix/internal/domain"
)

func TestDecisionCachePutGet(t *testing.T) {
	c := NewDecisionCache(time.Minute, 8)
	card := domain.Card{Suit: domain.Hearts, Rank: domain.Three}
	c.Put("fp1", card)

	got, ok := c.Get("fp1")
	if !ok || got != card {
		t.Fatalf("got %v ok=%v, want %v", got, ok, card)
	}
	if _, ok := c.Get("missing"); ok {
		t.Fatal("unexpected hit for unknown fingerprint")
	}
}

func TestDecisionCacheExpiry(t *testing.T) {
	c := NewDecisionCache(10*time.Millisecond, 8)
	c.Put("fp1", domain.Card{Suit: domain.Clubs, Rank: domain.Two})
	time.Sleep(25 * time.Millisecond)
	if _, ok := c.Get("fp1"); ok {
		t.Fatal("expired entry should miss")
	}
	// A later put sweeps the stale entry out entirely.
	c.Put("fp2", domain.Card{Suit: domain.Clubs, Rank: domain.Three})
	if c.Len() != 1 {
		t.Fatalf("len = %d, want 1 after sweep", c.Len())
	}
}

func TestDecisionCacheEvictsOldest(t *testing.T) {
	c := NewDecisionCache(time.Minute, 2)
	c.Put("fp1", domain.Card{Suit: domain.Clubs, Rank: domain.Two})
	time.Sleep(2 * time.Millisecond)
	c.Put("fp2", domain.Card{Suit: domain.Clubs, Rank: domain.Three})
	time.Sleep(2 * time.Millisecond)
	c.Put("fp3", domain.Card{Suit: domain.Clubs, Rank: domain.Four})

	if c.Len() != 2 {
		t.Fatalf("len = %d, want 2", c.Len())
	}
	if _, ok := c.Get("fp1"); ok {
		t.Fatal("oldest entry should have been evicted")
	}
	if _, ok := c.Get("fp3"); !ok {
		t.Fatal("newest entry should survive")
	}
}

func TestDecisionCacheContractEntries(t *testing.T) {
	c := NewDecisionCache(time.Minute, 8)
	c.PutContract("fp1", domain.ContractQueens)

	got, ok := c.GetContract("fp1")
	if !ok || got != domain.ContractQueens {
		t.Fatalf("got %v ok=%v, want queens", got, ok)
	}
	// A contract entry never satisfies a card lookup.
	if _, ok := c.Get("fp1"); ok {
		t.Fatal("card lookup must miss a contract entry")
	}

	c.Put("fp2", domain.Card{Suit: domain.Clubs, Rank: domain.Two})
	if _, ok := c.GetContract("fp2"); ok {
		t.Fatal("contract lookup must miss a card entry")
	}
}

func TestDecisionCacheContractExpiry(t *testing.T) {
	c := NewDecisionCache(10*time.Millisecond, 8)
	c.PutContract("fp1", domain.ContractDiamonds)
	time.Sleep(25 * time.Millisecond)
	if _, ok := c.GetContract("fp1"); ok {
		t.Fatal("expired contract entry should miss")
	}
}

func TestFingerprintSensitivity(t *testing.T) {
	g := domain.NewGame(domain.DefaultRules, domain.North)
	g.Contract = domain.ContractQueens
	g.CurrentTrick = &domain.Trick{}
	g.Players[domain.North].Hand = []domain.Card{
		{Suit: domain.Hearts, Rank: domain.Two},
		{Suit: domain.Spades, Rank: domain.Ace},
	}

	fp1 := FingerprintFor(g, domain.North)
	if fp2 := FingerprintFor(g, domain.North); fp2 != fp1 {
		t.Fatal("identical state must fingerprint identically")
	}

	g2 := g.Clone()
	g2.Players[domain.North].Hand = g2.Players[domain.North].Hand[:1]
	if FingerprintFor(g2, domain.North) == fp1 {
		t.Fatal("different hand must fingerprint differently")
	}

	g3 := g.Clone()
	g3.Contract = domain.ContractDiamonds
	if FingerprintFor(g3, domain.North) == fp1 {
		t.Fatal("different contract must fingerprint differently")
	}

	g4 := g.Clone()
	g4.CurrentTrick.Plays = []domain.Play{{Seat: domain.East, Card: domain.Card{Suit: domain.Hearts, Rank: domain.Five}}}
	if FingerprintFor(g4, domain.North) == fp1 {
		t.Fatal("played cards must change the fingerprint")
	}
}
