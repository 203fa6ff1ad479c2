package bot

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sort"
	"sync"
	"time"

	"trix/internal/domain"
)

// Fingerprint identifies one decision situation. Two game states that differ
// in anything a decision could depend on hash differently.
type Fingerprint string

// FingerprintFor digests the contract, the seat's hand, its legal moves, and
// every card already committed this round.
func FingerprintFor(game *domain.Game, seat domain.Seat) Fingerprint {
	h := sha256.New()
	h.Write([]byte(game.Contract))
	h.Write([]byte{byte(seat)})

	writeCards := func(cards []domain.Card) {
		idx := make([]int, 0, len(cards))
		for _, c := range cards {
			idx = append(idx, c.Index())
		}
		sort.Ints(idx)
		var buf [4]byte
		for _, i := range idx {
			binary.LittleEndian.PutUint32(buf[:], uint32(i))
			h.Write(buf[:])
		}
		h.Write([]byte{0xff})
	}
	writeCards(game.Players[seat].Hand)
	writeCards(game.LegalMoves(seat))
	writeCards(game.PlayedCards())

	return Fingerprint(hex.EncodeToString(h.Sum(nil)))
}

type cacheEntry struct {
	card     domain.Card
	contract domain.Contract // set for contract decisions, empty for cards
	added    time.Time
	expires  time.Time
}

// DecisionCache remembers guarded card and contract choices for identical
// situations so repeated positions skip the reasoning service. Entries expire
// after the TTL and the cache is bounded, evicting oldest entries first.
type DecisionCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	maxSize int
	entries map[Fingerprint]cacheEntry
}

// NewDecisionCache builds a cache with the given TTL and size bound.
func NewDecisionCache(ttl time.Duration, maxSize int) *DecisionCache {
	return &DecisionCache{
		ttl:     ttl,
		maxSize: maxSize,
		entries: make(map[Fingerprint]cacheEntry, maxSize),
	}
}

// Get returns the cached card for the fingerprint if present and fresh.
func (c *DecisionCache) Get(fp Fingerprint) (domain.Card, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[fp]
	if !ok || e.contract != "" || time.Now().After(e.expires) {
		return domain.Card{}, false
	}
	return e.card, true
}

// GetContract returns the cached contract for the fingerprint if present and fresh.
func (c *DecisionCache) GetContract(fp Fingerprint) (domain.Contract, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[fp]
	if !ok || e.contract == "" || time.Now().After(e.expires) {
		return "", false
	}
	return e.contract, true
}

// Put stores a card decision.
func (c *DecisionCache) Put(fp Fingerprint, card domain.Card) {
	c.store(fp, cacheEntry{card: card})
}

// PutContract stores a contract decision.
func (c *DecisionCache) PutContract(fp Fingerprint, contract domain.Contract) {
	c.store(fp, cacheEntry{contract: contract})
}

// store inserts an entry, sweeping expired entries and evicting the oldest
// while over the bound.
func (c *DecisionCache) store(fp Fingerprint, e cacheEntry) {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, old := range c.entries {
		if now.After(old.expires) {
			delete(c.entries, k)
		}
	}
	for c.maxSize > 0 && len(c.entries) >= c.maxSize {
		var oldest Fingerprint
		var oldestAdded time.Time
		for k, old := range c.entries {
			if oldest == "" || old.added.Before(oldestAdded) {
				oldest, oldestAdded = k, old.added
			}
		}
		delete(c.entries, oldest)
	}
	e.added = now
	e.expires = now.Add(c.ttl)
	c.entries[fp] = e
}

// Len reports the current entry count.
func (c *DecisionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
