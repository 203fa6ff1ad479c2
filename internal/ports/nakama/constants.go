package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// MatchNameTrix is the authoritative match handler name registered with Nakama.
	MatchNameTrix = "trix_match"

	// MatchLabelKey_OpenSeats is the label key matchmaking queries filter on.
	MatchLabelKey_OpenSeats = "open"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame      int64 = 1
	OpSelectContract int64 = 2
	OpDeclareDouble  int64 = 3
	OpPlayCard       int64 = 4
	OpPassTurn       int64 = 5

	// Server -> Client events
	OpPlayerJoined      int64 = 101
	OpPlayerLeft        int64 = 102
	OpGameStarted       int64 = 103
	OpHandDealt         int64 = 104 // sent privately
	OpContractSelection int64 = 105
	OpContractSelected  int64 = 106
	OpDoubled           int64 = 107
	OpCardPlayed        int64 = 108
	OpTurnPassed        int64 = 109
	OpTrickCompleted    int64 = 110
	OpRoundEnded        int64 = 111
	OpKingdomEnded      int64 = 112
	OpGameEnded         int64 = 113
	OpMatchSnapshot     int64 = 114
	OpError             int64 = 115
)
