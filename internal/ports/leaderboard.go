package ports

import "context"

// ScoreRecord is one user's final score for the season leaderboard.
type ScoreRecord struct {
	UserID   string
	Username string
	Score    int64
	Metadata map[string]interface{}
}

// LeaderboardPort publishes finished-game results.
type LeaderboardPort interface {
	// SubmitScores writes all records of one finished game.
	SubmitScores(ctx context.Context, leaderboardID string, records []ScoreRecord) error
}
