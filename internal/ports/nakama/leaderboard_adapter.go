package nakama

import (
	"context"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"

	"trix/internal/bot"
	"trix/internal/ports"
)

// NakamaLeaderboardAdapter writes end-of-game scores through the Nakama
// leaderboard API. Bot identities are skipped.
type NakamaLeaderboardAdapter struct {
	nk runtime.NakamaModule
}

func NewNakamaLeaderboardAdapter(nk runtime.NakamaModule) *NakamaLeaderboardAdapter {
	return &NakamaLeaderboardAdapter{nk: nk}
}

var _ ports.LeaderboardPort = (*NakamaLeaderboardAdapter)(nil)

func (a *NakamaLeaderboardAdapter) SubmitScores(ctx context.Context, leaderboardID string, records []ports.ScoreRecord) error {
	for _, rec := range records {
		if bot.IsBot(rec.UserID) {
			continue
		}
		_, err := a.nk.LeaderboardRecordWrite(ctx, leaderboardID, rec.UserID, rec.Username, rec.Score, 0, rec.Metadata, nil)
		if err != nil {
			return fmt.Errorf("leaderboard write for %s: %w", rec.UserID, err)
		}
	}
	return nil
}
