package bot

import botinternal "trix/internal/bot/internal"

// DefaultTuning is the informed mid-tier profile: avoid penalties, spend high
// cards early while tricks are cheap, tighten up toward the end.
var DefaultTuning = botinternal.BotTuning{
	Early: botinternal.PhaseWeights{
		PenaltyWeight: 1.0,
		WinWeight:     2.0,
		DumpBonus:     0.6,
		HighCardCost:  0.2,
		UnlockWeight:  2.0,
		FeedCost:      0.5,
	},
	Mid: botinternal.PhaseWeights{
		PenaltyWeight: 1.2,
		WinWeight:     3.0,
		DumpBonus:     0.8,
		HighCardCost:  0.4,
		UnlockWeight:  2.5,
		FeedCost:      1.0,
	},
	End: botinternal.PhaseWeights{
		PenaltyWeight: 1.5,
		WinWeight:     5.0,
		DumpBonus:     1.0,
		HighCardCost:  0.6,
		UnlockWeight:  3.0,
		FeedCost:      1.5,
	},
	DoubleMinHearts: 5,
}

// GodTuning leans harder on penalty avoidance and card memory.
var GodTuning = botinternal.BotTuning{
	Early: botinternal.PhaseWeights{
		PenaltyWeight: 1.3,
		WinWeight:     2.5,
		DumpBonus:     0.8,
		HighCardCost:  0.3,
		UnlockWeight:  2.5,
		FeedCost:      1.0,
	},
	Mid: botinternal.PhaseWeights{
		PenaltyWeight: 1.6,
		WinWeight:     4.0,
		DumpBonus:     1.0,
		HighCardCost:  0.5,
		UnlockWeight:  3.0,
		FeedCost:      1.5,
	},
	End: botinternal.PhaseWeights{
		PenaltyWeight: 2.0,
		WinWeight:     6.0,
		DumpBonus:     1.2,
		HighCardCost:  0.8,
		UnlockWeight:  3.5,
		FeedCost:      2.0,
	},
	DoubleMinHearts: 4,
}
