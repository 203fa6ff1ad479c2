package bot

import (
	"testing"
	"time"

	"trix/internal/domain"
)

func TestNewAgentUsesProvidedCache(t *testing.T) {
	cache := NewDecisionCache(time.Minute, 16)

	a, err := NewAgent("bot-0", domain.North, cache, nil)
	if err != nil {
		t.Fatalf("new agent: %v", err)
	}
	if a.Pipeline.cache != cache {
		t.Fatal("agent pipeline must use the caller's cache")
	}

	b, err := NewAgent("bot-1", domain.East, cache, nil)
	if err != nil {
		t.Fatalf("new agent: %v", err)
	}
	if b.Pipeline.cache != cache {
		t.Fatal("agents of one match share the same cache")
	}
}
