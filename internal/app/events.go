package app

import "trix/internal/domain"

// EventKind identifies emitted domain events for Nakama dispatch.
type EventKind string

const (
	EventPlayerJoined      EventKind = "player_joined"
	EventPlayerLeft        EventKind = "player_left"
	EventGameStarted       EventKind = "game_started"
	EventHandDealt         EventKind = "hand_dealt"
	EventContractSelection EventKind = "contract_selection"
	EventContractSelected  EventKind = "contract_selected"
	EventDoubled           EventKind = "doubled"
	EventCardPlayed        EventKind = "card_played"
	EventTurnPassed        EventKind = "turn_passed"
	EventTrickCompleted    EventKind = "trick_completed"
	EventRoundEnded        EventKind = "round_ended"
	EventKingdomEnded      EventKind = "kingdom_ended"
	EventGameEnded         EventKind = "game_ended"
)

// Event is a domain/app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type PlayerJoinedPayload struct {
	UserID string
	Seat   domain.Seat
}

type PlayerLeftPayload struct {
	UserID string
}

type GameStartedPayload struct {
	Kingdom    int
	KingUserID string
}

type HandDealtPayload struct {
	UserID string
	Hand   []domain.Card
}

// ContractSelectionPayload prompts the king. Broadcast so every seat sees
// whose choice the table is waiting on.
type ContractSelectionPayload struct {
	KingUserID string
	Round      int
	Kingdom    int
	Available  []domain.Contract
}

type ContractSelectedPayload struct {
	KingUserID  string
	Contract    domain.Contract
	FirstUserID string
}

type DoubledPayload struct {
	UserID string
}

type CardPlayedPayload struct {
	UserID         string
	Card           domain.Card
	NextTurnUserID string
}

// TurnPassedPayload covers both the explicit pass command and the engine
// passing a stuck seat through on its own.
type TurnPassedPayload struct {
	UserID         string
	Auto           bool
	NextTurnUserID string
}

type TrickCompletedPayload struct {
	WinnerUserID string
	Plays        []domain.Play
	Scores       map[string]int
}

type RoundEndedPayload struct {
	Contract   domain.Contract
	Round      int
	Kingdom    int
	Deadlocked bool
	Scores     map[string]int
}

type KingdomEndedPayload struct {
	Kingdom int
	Scores  map[string]int
}

type GameEndedPayload struct {
	// Standings lists user IDs best score first.
	Standings []string
	Scores    map[string]int
}
