// Package advisor talks to the external reasoning service that suggests bot
// moves. Every exchange is bounded by a deadline; callers always keep a local
// fallback for the non-success outcomes.
package advisor

import "context"

// CardRequest describes one card decision. Cards travel as 0-51 indexes:
// clubs 0-12, diamonds 13-25, hearts 26-38, spades 39-51.
type CardRequest struct {
	RequestID      string `json:"request_id"`
	PlayerCards    []int  `json:"player_cards"`
	ValidCards     []int  `json:"valid_cards"`
	GameMode       string `json:"game_mode"`
	PlayedCards    []int  `json:"played_cards"`
	CurrentPlayer  int    `json:"current_player"`
	PlayerPosition int    `json:"player_position"`
	TricksWon      []int  `json:"tricks_won"`
	RoundNumber    int    `json:"round_number"`
	TrickNumber    int    `json:"trick_number"`
	Scores         []int  `json:"scores"`
	Difficulty     string `json:"difficulty"`
}

// ContractRequest describes one contract decision for the king seat.
type ContractRequest struct {
	RequestID          string   `json:"request_id"`
	PlayerCards        []int    `json:"player_cards"`
	AvailableContracts []string `json:"available_contracts"`
	Scores             []int    `json:"scores"`
	RoundNumber        int      `json:"round_number"`
	KingdomNumber      int      `json:"kingdom_number"`
	Difficulty         string   `json:"difficulty"`
}

// Status classifies the outcome of one advisor exchange.
type Status int

const (
	// StatusSuccess carries a usable suggestion.
	StatusSuccess Status = iota
	// StatusInvalid means the service answered but the payload is unusable.
	StatusInvalid
	// StatusTimeout means the deadline expired before an answer arrived.
	StatusTimeout
	// StatusTransportError covers connection and protocol failures.
	StatusTransportError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusInvalid:
		return "invalid"
	case StatusTimeout:
		return "timeout"
	case StatusTransportError:
		return "transport_error"
	default:
		return "status?"
	}
}

// Result is the tagged outcome of one exchange. CardIndex and Contract are
// meaningful only on StatusSuccess; Reason explains the other statuses.
type Result struct {
	Status     Status
	CardIndex  int
	Contract   string
	Confidence float64
	Rationale  string
	Model      string
	Reason     string
}

// Advisor is the reasoning-service client surface.
type Advisor interface {
	AdviseCard(ctx context.Context, req CardRequest) Result
	AdviseContract(ctx context.Context, req ContractRequest) Result
}
