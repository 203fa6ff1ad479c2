package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"trix/internal/app"
	"trix/internal/bot"
	"trix/internal/config"
	"trix/internal/domain"
	"trix/internal/ports"
)

// tickRate is the match loop frequency in ticks per second. Delay settings
// are configured in milliseconds and converted with ticksFor.
const tickRate = 4

func ticksFor(millis int) int64 {
	t := int64(millis) * tickRate / 1000
	if t < 1 {
		t = 1
	}
	return t
}

type matchLabel struct {
	Open  int    `json:"open"`
	State string `json:"state"`
}

type botResult struct {
	decision bot.Decision
	err      error
}

// pendingDecision tracks one in-flight asynchronous bot decision. The
// generation captured at launch lets the loop discard results computed
// against stale state.
type pendingDecision struct {
	generation uint64
	userID     string
	ch         chan botResult
}

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Seats     [domain.NumSeats]string     `json:"seats"`      // user IDs, empty string means the seat is free
	OwnerSeat int                         `json:"owner_seat"` // seat index of the match owner, always a human
	Tick      int64                       `json:"tick"`
	Presences map[string]runtime.Presence `json:"-"`
	App       *app.Service                `json:"-"`
	Game      *domain.Game                `json:"-"` // nil while in lobby
	GameCfg   config.GameConfig           `json:"-"`

	BotsEnabled       bool                  `json:"bots_enabled"`
	Bots              map[string]*bot.Agent `json:"-"`
	Cache             *bot.DecisionCache    `json:"-"` // advice cache owned by this match
	BotWaitUntil      int64                 `json:"bot_wait_until"`      // tick when the next bot may act
	SinglePlayerSince int64                 `json:"single_player_since"` // tick when a solo human started waiting
	Pending           *pendingDecision      `json:"-"`
	DoubleAsked       bool                  `json:"double_asked"` // the king-of-hearts holder bot was already consulted this round

	SettleAtTick  int64 `json:"settle_at_tick"`  // tick when a completed trick is swept
	AdvanceAtTick int64 `json:"advance_at_tick"` // tick when a finished round or kingdom advances

	Leaderboard ports.LeaderboardPort `json:"-"`
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !isBotUserId(seat) {
			count++
		}
	}
	return count
}

func (ms *MatchState) seatOf(userID string) int {
	for i, id := range ms.Seats {
		if id == userID {
			return i
		}
	}
	return -1
}

// isBotUserId reports whether the given user id represents a bot seat.
func isBotUserId(userId string) bool {
	return bot.IsBot(userId)
}

// isHumanSeat reports whether the seat index belongs to a human player.
func isHumanSeat(seats []string, seatIndex int) bool {
	if seatIndex < 0 || seatIndex >= len(seats) {
		return false
	}
	userId := seats[seatIndex]
	return userId != "" && !isBotUserId(userId)
}

// findFirstHumanSeat returns the first seat index with a human occupant or -1 if none exist.
func findFirstHumanSeat(seats []string) int {
	for i, userId := range seats {
		if userId != "" && !isBotUserId(userId) {
			return i
		}
	}
	return -1
}

func shouldTerminateNoHumans(seats []string) bool {
	return findFirstHumanSeat(seats) == -1
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}
	if err := config.LoadAIConfig("data/ai_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load AI config: %v", err)
	}

	gameCfg := config.GetGameConfig()
	aiCfg := config.GetAIConfig()

	state := &MatchState{
		Tick:        time.Now().Unix(),
		Presences:   make(map[string]runtime.Presence),
		App:         app.NewService(nil),
		OwnerSeat:   -1,
		GameCfg:     gameCfg,
		BotsEnabled: gameCfg.BotsEnabled,
		Bots:        make(map[string]*bot.Agent),
		Cache:       bot.NewDecisionCache(aiCfg.CacheTTL(), aiCfg.CacheSize),
		Leaderboard: NewNakamaLeaderboardAdapter(nk),
	}

	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		if val, ok := env["trix_bots_enabled"]; ok {
			state.BotsEnabled = val == "true"
		}
	}

	label := matchLabel{Open: state.GetOpenSeatsCount(), State: "lobby"}
	labelBytes, err := json.Marshal(label)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	return state, tickRate, string(labelBytes)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Allow join if there is an empty seat OR a bot to replace while still in lobby.
	if matchState.GetOpenSeatsCount() <= 0 {
		hasBot := false
		if matchState.Game == nil {
			for _, seat := range matchState.Seats {
				if isBotUserId(seat) {
					hasBot = true
					break
				}
			}
		}
		if !hasBot {
			return state, false, "Match full"
		}
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		assigned := -1
		for i, seatUserId := range matchState.Seats {
			if seatUserId == "" {
				matchState.Seats[i] = p.GetUserId()
				assigned = i
				break
			}
		}

		if assigned < 0 && matchState.Game == nil {
			for i, seatUserId := range matchState.Seats {
				if isBotUserId(seatUserId) {
					logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", seatUserId, p.GetUserId(), i)
					delete(matchState.Bots, seatUserId)
					matchState.Seats[i] = p.GetUserId()
					assigned = i
					break
				}
			}
		}

		if assigned < 0 {
			logger.Warn("MatchJoin: User %s joined but no seat (empty or bot) was available.", p.GetUserId())
			continue
		}

		mh.broadcastEvent(ctx, matchState, dispatcher, logger, app.Event{
			Kind:    app.EventPlayerJoined,
			Payload: app.PlayerJoinedPayload{UserID: p.GetUserId(), Seat: domain.Seat(assigned)},
		})
	}

	// The owner seat always belongs to a human.
	if !isHumanSeat(matchState.Seats[:], matchState.OwnerSeat) {
		matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
		if matchState.OwnerSeat >= 0 {
			logger.Debug("MatchJoin: Owner set to human seat %d.", matchState.OwnerSeat)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.sendSnapshots(matchState, dispatcher, logger)

	return matchState
}

// MatchLeave is called when one or more players leave the match. Mid-game the
// leaver's seat is handed to a bot agent so the table keeps playing.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		delete(matchState.Presences, userID)

		seat := matchState.seatOf(userID)
		if seat < 0 {
			continue
		}

		if matchState.Game == nil {
			matchState.Seats[seat] = ""
			logger.Debug("MatchLeave: User %s left, seat %d freed.", userID, seat)
		} else {
			// Keep the seat occupied under the same user id and let a bot
			// finish the game for it.
			matchState.Game.Players[seat].IsBot = true
			agent, err := bot.NewAgent(userID, domain.Seat(seat), matchState.Cache, logger)
			if err != nil {
				logger.Error("MatchLeave: Failed to create takeover agent for %s: %v", userID, err)
			} else {
				matchState.Bots[userID] = agent
			}
			logger.Info("MatchLeave: User %s left mid-game, seat %d handed to bot.", userID, seat)
		}

		mh.broadcastEvent(ctx, matchState, dispatcher, logger, app.Event{
			Kind:    app.EventPlayerLeft,
			Payload: app.PlayerLeftPayload{UserID: userID},
		})
	}

	newOwnerSeat := findFirstHumanSeat(matchState.Seats[:])
	if newOwnerSeat != matchState.OwnerSeat {
		matchState.OwnerSeat = newOwnerSeat
		if newOwnerSeat >= 0 {
			logger.Debug("MatchLeave: Owner set to human seat %d.", newOwnerSeat)
		}
	}

	if shouldTerminateNoHumans(matchState.Seats[:]) {
		logger.Info("MatchLeave: Terminating match with no humans.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpSelectContract:
			mh.handleSelectContract(ctx, matchState, dispatcher, logger, msg)
		case OpDeclareDouble:
			mh.handleDeclareDouble(ctx, matchState, dispatcher, logger, msg)
		case OpPlayCard:
			mh.handlePlayCard(ctx, matchState, dispatcher, logger, msg)
		case OpPassTurn:
			mh.handlePassTurn(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	mh.advancePhases(ctx, matchState, dispatcher, logger)

	if matchState.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
	}

	return matchState
}

// advancePhases drives the timed transitions the engine leaves to the host:
// sweeping a settled trick and dealing the next round or kingdom.
func (mh *matchHandler) advancePhases(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Game == nil {
		state.SettleAtTick = 0
		state.AdvanceAtTick = 0
		return
	}

	switch state.Game.Phase {
	case domain.PhaseTrickComplete:
		if state.SettleAtTick == 0 {
			state.SettleAtTick = state.Tick + ticksFor(state.GameCfg.TrickSettleDelayMillis)
			return
		}
		if state.Tick < state.SettleAtTick {
			return
		}
		state.SettleAtTick = 0
		events, err := state.App.CompleteTrick(state.Game)
		if err != nil {
			logger.Error("advancePhases: Failed to settle trick: %v", err)
			return
		}
		mh.broadcastEvents(ctx, state, dispatcher, logger, events)
	case domain.PhaseRoundEnd, domain.PhaseKingdomEnd:
		if state.AdvanceAtTick == 0 {
			state.AdvanceAtTick = state.Tick + ticksFor(state.GameCfg.TrickSettleDelayMillis)
			return
		}
		if state.Tick < state.AdvanceAtTick {
			return
		}
		state.AdvanceAtTick = 0
		events, err := state.App.Advance(state.Game)
		if err != nil {
			logger.Error("advancePhases: Failed to advance game: %v", err)
			return
		}
		mh.broadcastEvents(ctx, state, dispatcher, logger, events)
	default:
		state.SettleAtTick = 0
		state.AdvanceAtTick = 0
	}
}

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	mh.autoFillLobby(state, dispatcher, logger)

	// Collect a finished asynchronous decision, if any.
	if state.Pending != nil {
		select {
		case res := <-state.Pending.ch:
			pending := state.Pending
			state.Pending = nil
			if res.err != nil {
				logger.Error("processBots: Bot %s failed to decide: %v", pending.userID, res.err)
				return
			}
			if state.Game == nil || state.Game.Generation != pending.generation {
				logger.Debug("processBots: Discarding stale decision from %s.", pending.userID)
				return
			}
			mh.applyBotDecision(ctx, state, dispatcher, logger, pending.userID, res.decision)
		default:
			// Still thinking.
		}
		return
	}

	userID, ok := mh.nextBotActor(state)
	if !ok {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		state.BotWaitUntil = state.Tick + ticksFor(state.GameCfg.BotActDelayMillis)
		return
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	agent, exists := state.Bots[userID]
	if !exists {
		seat := state.seatOf(userID)
		var err error
		agent, err = bot.NewAgent(userID, domain.Seat(seat), state.Cache, logger)
		if err != nil {
			logger.Error("processBots: Failed to create fallback agent: %v", err)
			return
		}
		state.Bots[userID] = agent
	}

	// Decide on a snapshot in the background; the live state may move on
	// while the advisor round-trips, in which case the result is discarded.
	clone := state.Game.Clone()
	ch := make(chan botResult, 1)
	state.Pending = &pendingDecision{generation: state.Game.Generation, userID: userID, ch: ch}
	go func() {
		decision, err := agent.Decide(context.Background(), clone)
		ch <- botResult{decision: decision, err: err}
	}()
}

// autoFillLobby seats bots for a solo human after the configured delay.
func (mh *matchHandler) autoFillLobby(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Game != nil {
		return
	}
	if state.GetHumanPlayerCount() != 1 {
		state.SinglePlayerSince = 0
		return
	}
	if state.SinglePlayerSince == 0 {
		state.SinglePlayerSince = state.Tick
		logger.Debug("autoFillLobby: Single player detected, starting auto-fill timer.")
		return
	}
	if state.Tick-state.SinglePlayerSince < int64(state.GameCfg.BotAutoFillDelaySeconds)*tickRate {
		return
	}

	added := false
	for i, seat := range state.Seats {
		if seat != "" {
			continue
		}
		identity := bot.GetBotIdentity(i)
		botID := identity.UserID
		state.Seats[i] = botID

		agent, err := bot.NewAgent(botID, domain.Seat(i), state.Cache, logger)
		if err != nil {
			logger.Error("autoFillLobby: Failed to create bot agent for %s: %v", botID, err)
		} else {
			state.Bots[botID] = agent
		}

		logger.Info("autoFillLobby: Added bot %s (%s) to seat %d", identity.Username, botID, i)
		added = true
	}
	if added {
		mh.updateLabel(state, dispatcher, logger)
		mh.sendSnapshots(state, dispatcher, logger)
	}
	state.SinglePlayerSince = 0
}

// nextBotActor returns the bot whose decision the game is waiting on.
func (mh *matchHandler) nextBotActor(state *MatchState) (string, bool) {
	g := state.Game
	if g == nil {
		return "", false
	}

	switch g.Phase {
	case domain.PhaseContractSelection:
		userID := state.Seats[g.King]
		if isBotUserId(userID) || g.Players[g.King].IsBot {
			return userID, true
		}
	case domain.PhasePlaying:
		// Before the first card of a king of hearts round, the holder of the
		// king gets one chance to double, whoever's turn it is.
		if doubleWindowOpen(g) && !state.DoubleAsked {
			for _, p := range g.Players {
				if !domain.ContainsCard(p.Hand, domain.KingOfHearts) {
					continue
				}
				if p.IsBot {
					return state.Seats[p.Seat], true
				}
				// A human holder doubles via its own message; don't stall bots on it.
				state.DoubleAsked = true
				break
			}
		}
		userID := state.Seats[g.Current]
		if isBotUserId(userID) || g.Players[g.Current].IsBot {
			return userID, true
		}
	}
	return "", false
}

func doubleWindowOpen(g *domain.Game) bool {
	return g.Contract == domain.ContractKingOfHearts && !g.Doubled &&
		len(g.CompletedTricks) == 0 && len(g.CurrentTrick.Plays) == 0
}

func (mh *matchHandler) applyBotDecision(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, decision bot.Decision) {
	var events []app.Event
	var err error

	switch decision.Kind {
	case bot.DecisionContract:
		events, err = state.App.SelectContract(state.Game, userID, decision.Contract)
	case bot.DecisionDouble:
		state.DoubleAsked = true
		events, err = state.App.DeclareDouble(state.Game, userID)
	case bot.DecisionCard:
		events, err = state.App.PlayCard(state.Game, userID, decision.Card)
	case bot.DecisionNone:
		// The only actor asked who may decline is the king-of-hearts holder.
		state.DoubleAsked = true
		return
	}

	if err != nil {
		logger.Warn("applyBotDecision: Bot %s action rejected: %v", userID, err)
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := state.seatOf(senderID)

	logger.Info("StartGame: Request received from %s (seat=%d, owner_seat=%d, occupied=%d)", senderID, senderSeat, state.OwnerSeat, state.GetOccupiedSeatCount())

	if state.Game != nil {
		logger.Warn("StartGame: Game already in progress.")
		return
	}
	if senderSeat != state.OwnerSeat {
		logger.Warn("StartGame: User %s tried to start game but is not owner (owner_seat=%d)", senderID, state.OwnerSeat)
		return
	}

	// Fill any remaining seats with bots before dealing.
	if state.BotsEnabled {
		for i, seat := range state.Seats {
			if seat != "" {
				continue
			}
			identity := bot.GetBotIdentity(i)
			state.Seats[i] = identity.UserID
			agent, err := bot.NewAgent(identity.UserID, domain.Seat(i), state.Cache, logger)
			if err != nil {
				logger.Error("StartGame: Failed to create bot agent for %s: %v", identity.UserID, err)
			} else {
				state.Bots[identity.UserID] = agent
			}
		}
	}
	if state.GetOpenSeatsCount() > 0 {
		logger.Warn("StartGame: Cannot start with %d open seats.", state.GetOpenSeatsCount())
		return
	}

	var playerIDs [domain.NumSeats]string
	var bots [domain.NumSeats]bool
	for i, id := range state.Seats {
		playerIDs[i] = id
		bots[i] = isBotUserId(id)
	}

	rules := domain.GameRules{
		ContractsPerKingdom: state.GameCfg.ContractsPerKingdom,
		KingdomLimit:        state.GameCfg.KingdomLimit,
	}

	game, events, err := state.App.StartGame(rules, playerIDs, bots)
	if err != nil {
		logger.Error("StartGame: Failed to start game: %v", err)
		return
	}

	state.Game = game
	state.DoubleAsked = false
	state.BotWaitUntil = 0

	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)

	logger.Info("StartGame: Game started.")
}

func (mh *matchHandler) handleSelectContract(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Game == nil {
		logger.Warn("handleSelectContract: Game not started.")
		return
	}

	var request selectContractMsg
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Error("handleSelectContract: Failed to unmarshal request: %v", err)
		return
	}

	contract, ok := domain.ParseContract(request.Contract)
	if !ok {
		mh.sendError(state, dispatcher, logger, senderID, "bad_request", "unknown contract: "+request.Contract)
		return
	}

	events, err := state.App.SelectContract(state.Game, senderID, contract)
	if err != nil {
		logger.Warn("handleSelectContract: User %s failed to select %s: %v", senderID, contract, err)
		mh.sendError(state, dispatcher, logger, senderID, "rejected", err.Error())
		return
	}

	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handleDeclareDouble(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Game == nil {
		logger.Warn("handleDeclareDouble: Game not started.")
		return
	}

	events, err := state.App.DeclareDouble(state.Game, senderID)
	if err != nil {
		logger.Warn("handleDeclareDouble: User %s failed to double: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, "rejected", err.Error())
		return
	}

	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handlePlayCard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Game == nil {
		logger.Warn("handlePlayCard: Game not started.")
		return
	}

	var request playCardMsg
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Error("handlePlayCard: Failed to unmarshal request: %v", err)
		return
	}

	card, ok := domain.CardFromIndex(request.Card)
	if !ok {
		mh.sendError(state, dispatcher, logger, senderID, "bad_request", "card index out of range")
		return
	}

	events, err := state.App.PlayCard(state.Game, senderID, card)
	if err != nil {
		logger.Warn("handlePlayCard: User %s failed to play %v: %v", senderID, card, err)
		mh.sendError(state, dispatcher, logger, senderID, "rejected", err.Error())
		return
	}

	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handlePassTurn(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Game == nil {
		logger.Warn("handlePassTurn: Game not started.")
		return
	}

	events, err := state.App.PassTurn(state.Game, senderID)
	if err != nil {
		logger.Warn("handlePassTurn: User %s failed to pass turn: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, "rejected", err.Error())
		return
	}

	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) broadcastEvents(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

// broadcastEvent converts an app event to its wire form and dispatches it,
// honoring targeted recipients.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	switch ev.Kind {
	case app.EventContractSelection:
		// A fresh round: the double window reopens.
		state.DoubleAsked = false
	case app.EventGameEnded:
		mh.settleGameEnd(ctx, state, dispatcher, logger, ev.Payload.(app.GameEndedPayload))
	}

	opCode, payload, ok := eventToWire(ev)
	if !ok {
		logger.Warn("broadcastEvent: Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := json.Marshal(payload)
	if err != nil {
		logger.Error("broadcastEvent: Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Determine recipients (default to broadcast).
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}

		// If we had intended recipients but none are connected (e.g. they are
		// bots), we MUST NOT broadcast to everyone else.
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
}

// settleGameEnd writes the final scores to the season leaderboard and returns
// the match to the lobby.
func (mh *matchHandler) settleGameEnd(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, payload app.GameEndedPayload) {
	if state.Leaderboard != nil && state.GameCfg.LeaderboardID != "" {
		records := make([]ports.ScoreRecord, 0, len(payload.Scores))
		for userID, score := range payload.Scores {
			username := userID
			if p, exists := state.Presences[userID]; exists {
				username = p.GetUsername()
			} else if name := bot.GetBotDisplayName(userID); name != "" {
				username = name
			}
			records = append(records, ports.ScoreRecord{
				UserID:   userID,
				Username: username,
				Score:    int64(score),
				Metadata: map[string]interface{}{
					"match_id": ctx.Value(runtime.RUNTIME_CTX_MATCH_ID),
				},
			})
		}
		if err := state.Leaderboard.SubmitScores(ctx, state.GameCfg.LeaderboardID, records); err != nil {
			logger.Error("settleGameEnd: Failed to submit scores: %v", err)
		}
	}

	state.Game = nil
	state.Pending = nil
	state.BotWaitUntil = 0
	state.SettleAtTick = 0
	state.AdvanceAtTick = 0
	mh.updateLabel(state, dispatcher, logger)
}

// sendSnapshots delivers each connected player its own redacted view.
func (mh *matchHandler) sendSnapshots(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	for userID, presence := range state.Presences {
		snap := buildSnapshot(state.Game, state.Seats, userID)
		bytes, err := json.Marshal(snap)
		if err != nil {
			logger.Error("sendSnapshots: Failed to marshal snapshot: %v", err)
			return
		}
		dispatcher.BroadcastMessage(OpMatchSnapshot, bytes, []runtime.Presence{presence}, nil, true)
	}
}

// sendError sends an error message to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code, message string) {
	bytes, err := json.Marshal(errorMsg{Code: code, Message: message})
	if err != nil {
		logger.Error("sendError: Failed to marshal error: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("sendError: Cannot send error to %s: Presence not found", userID)
		return
	}

	dispatcher.BroadcastMessage(OpError, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	labelState := "lobby"
	if state.Game != nil {
		labelState = "playing"
	}

	labelBytes, err := json.Marshal(matchLabel{Open: state.GetOpenSeatsCount(), State: labelState})
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
