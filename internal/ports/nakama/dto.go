package nakama

import (
	"trix/internal/app"
	"trix/internal/domain"
)

// Wire DTOs. Cards travel as deck indexes 0-51 so clients stay agnostic of
// the server-side card representation.

type startGameMsg struct{}

type selectContractMsg struct {
	Contract string `json:"contract"`
}

type playCardMsg struct {
	Card int `json:"card"`
}

type errorMsg struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type playerJoinedMsg struct {
	UserID string `json:"user_id"`
	Seat   int    `json:"seat"`
}

type playerLeftMsg struct {
	UserID string `json:"user_id"`
}

type gameStartedMsg struct {
	Kingdom    int    `json:"kingdom"`
	KingUserID string `json:"king_user_id"`
}

type handDealtMsg struct {
	Hand []int `json:"hand"`
}

type contractSelectionMsg struct {
	KingUserID string   `json:"king_user_id"`
	Round      int      `json:"round"`
	Kingdom    int      `json:"kingdom"`
	Available  []string `json:"available"`
}

type contractSelectedMsg struct {
	KingUserID  string `json:"king_user_id"`
	Contract    string `json:"contract"`
	FirstUserID string `json:"first_user_id"`
}

type doubledMsg struct {
	UserID string `json:"user_id"`
}

type cardPlayedMsg struct {
	UserID         string `json:"user_id"`
	Card           int    `json:"card"`
	NextTurnUserID string `json:"next_turn_user_id"`
}

type turnPassedMsg struct {
	UserID         string `json:"user_id"`
	Auto           bool   `json:"auto"`
	NextTurnUserID string `json:"next_turn_user_id"`
}

type trickPlayMsg struct {
	Seat int `json:"seat"`
	Card int `json:"card"`
}

type trickCompletedMsg struct {
	WinnerUserID string         `json:"winner_user_id"`
	Plays        []trickPlayMsg `json:"plays"`
	Scores       map[string]int `json:"scores"`
}

type roundEndedMsg struct {
	Contract   string         `json:"contract"`
	Round      int            `json:"round"`
	Kingdom    int            `json:"kingdom"`
	Deadlocked bool           `json:"deadlocked"`
	Scores     map[string]int `json:"scores"`
}

type kingdomEndedMsg struct {
	Kingdom int            `json:"kingdom"`
	Scores  map[string]int `json:"scores"`
}

type gameEndedMsg struct {
	Standings []string       `json:"standings"`
	Scores    map[string]int `json:"scores"`
}

type seatView struct {
	UserID    string `json:"user_id"`
	Seat      int    `json:"seat"`
	IsBot     bool   `json:"is_bot"`
	Score     int    `json:"score"`
	Tricks    int    `json:"tricks"`
	HandCount int    `json:"hand_count"`
}

// matchSnapshot is the per-viewer state sync. Only the viewer's own hand is
// included; everyone else is reduced to a hand count.
type matchSnapshot struct {
	Phase         string           `json:"phase"`
	Contract      string           `json:"contract,omitempty"`
	Doubled       bool             `json:"doubled,omitempty"`
	KingUserID    string           `json:"king_user_id,omitempty"`
	CurrentUserID string           `json:"current_user_id,omitempty"`
	Round         int              `json:"round"`
	Kingdom       int              `json:"kingdom"`
	UsedContracts []string         `json:"used_contracts,omitempty"`
	Seats         []seatView       `json:"seats"`
	Trick         []trickPlayMsg   `json:"trick,omitempty"`
	TrexPlaced    map[string][]int `json:"trex_placed,omitempty"`
	Hand          []int            `json:"hand,omitempty"`
}

func cardIndexes(cards []domain.Card) []int {
	out := make([]int, len(cards))
	for i, c := range cards {
		out[i] = c.Index()
	}
	return out
}

func contractNames(contracts []domain.Contract) []string {
	out := make([]string, len(contracts))
	for i, c := range contracts {
		out[i] = string(c)
	}
	return out
}

func trickPlays(plays []domain.Play) []trickPlayMsg {
	out := make([]trickPlayMsg, len(plays))
	for i, p := range plays {
		out[i] = trickPlayMsg{Seat: int(p.Seat), Card: p.Card.Index()}
	}
	return out
}

// eventToWire maps an app event to its op code and wire payload. Returns
// ok=false for kinds with no client-facing representation.
func eventToWire(ev app.Event) (int64, any, bool) {
	switch p := ev.Payload.(type) {
	case app.PlayerJoinedPayload:
		return OpPlayerJoined, playerJoinedMsg{UserID: p.UserID, Seat: int(p.Seat)}, true
	case app.PlayerLeftPayload:
		return OpPlayerLeft, playerLeftMsg{UserID: p.UserID}, true
	case app.GameStartedPayload:
		return OpGameStarted, gameStartedMsg{Kingdom: p.Kingdom, KingUserID: p.KingUserID}, true
	case app.HandDealtPayload:
		return OpHandDealt, handDealtMsg{Hand: cardIndexes(p.Hand)}, true
	case app.ContractSelectionPayload:
		return OpContractSelection, contractSelectionMsg{
			KingUserID: p.KingUserID,
			Round:      p.Round,
			Kingdom:    p.Kingdom,
			Available:  contractNames(p.Available),
		}, true
	case app.ContractSelectedPayload:
		return OpContractSelected, contractSelectedMsg{
			KingUserID:  p.KingUserID,
			Contract:    string(p.Contract),
			FirstUserID: p.FirstUserID,
		}, true
	case app.DoubledPayload:
		return OpDoubled, doubledMsg{UserID: p.UserID}, true
	case app.CardPlayedPayload:
		return OpCardPlayed, cardPlayedMsg{
			UserID:         p.UserID,
			Card:           p.Card.Index(),
			NextTurnUserID: p.NextTurnUserID,
		}, true
	case app.TurnPassedPayload:
		return OpTurnPassed, turnPassedMsg{UserID: p.UserID, Auto: p.Auto, NextTurnUserID: p.NextTurnUserID}, true
	case app.TrickCompletedPayload:
		return OpTrickCompleted, trickCompletedMsg{
			WinnerUserID: p.WinnerUserID,
			Plays:        trickPlays(p.Plays),
			Scores:       p.Scores,
		}, true
	case app.RoundEndedPayload:
		return OpRoundEnded, roundEndedMsg{
			Contract:   string(p.Contract),
			Round:      p.Round,
			Kingdom:    p.Kingdom,
			Deadlocked: p.Deadlocked,
			Scores:     p.Scores,
		}, true
	case app.KingdomEndedPayload:
		return OpKingdomEnded, kingdomEndedMsg{Kingdom: p.Kingdom, Scores: p.Scores}, true
	case app.GameEndedPayload:
		return OpGameEnded, gameEndedMsg{Standings: p.Standings, Scores: p.Scores}, true
	}
	return 0, nil, false
}

// buildSnapshot renders the game as seen by viewerID.
func buildSnapshot(g *domain.Game, seats [domain.NumSeats]string, viewerID string) matchSnapshot {
	snap := matchSnapshot{Phase: "lobby"}
	if g == nil {
		for i, id := range seats {
			if id == "" {
				continue
			}
			snap.Seats = append(snap.Seats, seatView{UserID: id, Seat: i})
		}
		return snap
	}

	snap.Phase = string(g.Phase)
	snap.Contract = string(g.Contract)
	snap.Doubled = g.Doubled
	snap.Round = g.Round
	snap.Kingdom = g.Kingdom
	for c := range g.Used {
		snap.UsedContracts = append(snap.UsedContracts, string(c))
	}
	for _, p := range g.Players {
		snap.Seats = append(snap.Seats, seatView{
			UserID:    p.UserID,
			Seat:      int(p.Seat),
			IsBot:     p.IsBot,
			Score:     p.Score,
			Tricks:    p.Tricks,
			HandCount: len(p.Hand),
		})
		if p.UserID == viewerID {
			snap.Hand = cardIndexes(p.Hand)
		}
	}
	snap.KingUserID = g.Players[g.King].UserID
	if g.Phase == domain.PhasePlaying || g.Phase == domain.PhaseContractSelection {
		snap.CurrentUserID = g.Players[g.Current].UserID
	}
	if g.CurrentTrick != nil && len(g.CurrentTrick.Plays) > 0 {
		snap.Trick = trickPlays(g.CurrentTrick.Plays)
	}
	if g.Trex != nil {
		placed := make(map[string][]int)
		for _, s := range []domain.Suit{domain.Clubs, domain.Diamonds, domain.Hearts, domain.Spades} {
			ranks := g.Trex.PlacedRanks(s)
			if len(ranks) == 0 {
				continue
			}
			ints := make([]int, len(ranks))
			for i, r := range ranks {
				ints[i] = int(r)
			}
			placed[s.String()] = ints
		}
		if len(placed) > 0 {
			snap.TrexPlaced = placed
		}
	}
	return snap
}
