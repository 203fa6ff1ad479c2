package bot

import (
	"fmt"
)

// BotLevel selects a rule-based strategy tier.
type BotLevel int

const (
	BotLevelGood BotLevel = iota
	BotLevelSmart
	BotLevelGod
)

// ParseLevel maps a difficulty label onto a level. Unknown labels get the
// middle tier.
func ParseLevel(difficulty string) BotLevel {
	switch difficulty {
	case "easy":
		return BotLevelGood
	case "hard":
		return BotLevelGod
	default:
		return BotLevelSmart
	}
}

// NewBrain creates a rule-based brain for the specified level.
func NewBrain(level BotLevel) (Brain, error) {
	switch level {
	case BotLevelGood:
		return &GoodBot{}, nil
	case BotLevelSmart:
		return &SmartBot{Tuning: DefaultTuning}, nil
	case BotLevelGod:
		return &GodBot{SmartBot{Tuning: GodTuning, Deep: true}}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}
