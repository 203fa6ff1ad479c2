package app

import (
	"errors"
	"math/rand"
	"sort"
	"time"

	"trix/internal/domain"
)

// Service contains Trix use-cases operating on domain state. It owns the
// shuffle rng; everything else lives on the Game it is handed.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

var (
	ErrUnknownPlayer  = errors.New("player not found")
	ErrSeatsNotFilled = errors.New("all four seats must be filled")
)

// StartGame initializes a Game with the provided players in seat order and
// deals the first round. Trix is strictly four-handed; the caller fills empty
// seats with bots before starting.
func (s *Service) StartGame(rules domain.GameRules, playerIDs [domain.NumSeats]string, bots [domain.NumSeats]bool) (*domain.Game, []Event, error) {
	for _, id := range playerIDs {
		if id == "" {
			return nil, nil, ErrSeatsNotFilled
		}
	}

	game := domain.NewGame(rules, domain.North)
	for seat := domain.Seat(0); seat < domain.NumSeats; seat++ {
		game.Players[seat].UserID = playerIDs[seat]
		game.Players[seat].IsBot = bots[seat]
	}

	events := []Event{{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			Kingdom:    game.Kingdom,
			KingUserID: s.userAt(game, game.King),
		},
	}}
	dealt, err := s.dealRound(game)
	if err != nil {
		return nil, nil, err
	}
	return game, append(events, dealt...), nil
}

// SelectContract processes the king's contract choice.
func (s *Service) SelectContract(game *domain.Game, actorUserID string, contract domain.Contract) ([]Event, error) {
	seat, err := s.seatOf(game, actorUserID)
	if err != nil {
		return nil, err
	}
	if err := game.SelectContract(seat, contract); err != nil {
		return nil, err
	}
	events := []Event{{
		Kind: EventContractSelected,
		Payload: ContractSelectedPayload{
			KingUserID:  actorUserID,
			Contract:    contract,
			FirstUserID: s.userAt(game, game.Current),
		},
	}}
	return s.appendProgress(game, events), nil
}

// DeclareDouble doubles the round for the seat holding the King of Hearts.
func (s *Service) DeclareDouble(game *domain.Game, actorUserID string) ([]Event, error) {
	seat, err := s.seatOf(game, actorUserID)
	if err != nil {
		return nil, err
	}
	if err := game.DeclareDouble(seat); err != nil {
		return nil, err
	}
	return []Event{{
		Kind:    EventDoubled,
		Payload: DoubledPayload{UserID: actorUserID},
	}}, nil
}

// PlayCard processes a play action and emits resulting events. In Trex the
// engine may pass stuck seats through or end the round before returning.
func (s *Service) PlayCard(game *domain.Game, actorUserID string, card domain.Card) ([]Event, error) {
	seat, err := s.seatOf(game, actorUserID)
	if err != nil {
		return nil, err
	}
	if err := game.PlayCard(seat, card); err != nil {
		return nil, err
	}
	next := ""
	if game.Phase == domain.PhasePlaying {
		next = s.userAt(game, game.Current)
	}
	events := []Event{{
		Kind: EventCardPlayed,
		Payload: CardPlayedPayload{
			UserID:         actorUserID,
			Card:           card,
			NextTurnUserID: next,
		},
	}}
	return s.appendProgress(game, events), nil
}

// PassTurn processes an explicit Trex pass.
func (s *Service) PassTurn(game *domain.Game, actorUserID string) ([]Event, error) {
	seat, err := s.seatOf(game, actorUserID)
	if err != nil {
		return nil, err
	}
	if err := game.PassTurn(seat); err != nil {
		return nil, err
	}
	next := ""
	if game.Phase == domain.PhasePlaying {
		next = s.userAt(game, game.Current)
	}
	events := []Event{{
		Kind: EventTurnPassed,
		Payload: TurnPassedPayload{
			UserID:         actorUserID,
			Auto:           false,
			NextTurnUserID: next,
		},
	}}
	return s.appendProgress(game, events), nil
}

// CompleteTrick settles the held trick. The match loop calls this after the
// settlement delay so clients can see the full trick before it is swept.
func (s *Service) CompleteTrick(game *domain.Game) ([]Event, error) {
	if err := game.CompleteTrick(); err != nil {
		return nil, err
	}
	last := game.CompletedTricks[len(game.CompletedTricks)-1]
	events := []Event{{
		Kind: EventTrickCompleted,
		Payload: TrickCompletedPayload{
			WinnerUserID: s.userAt(game, last.Winner),
			Plays:        last.Plays,
			Scores:       s.scores(game),
		},
	}}
	if game.Phase == domain.PhaseRoundEnd {
		events = append(events, s.roundEndedEvent(game))
	}
	return events, nil
}

// Advance steps the game out of a settlement phase: round_end into the next
// round's deal or kingdom_end, kingdom_end into a fresh kingdom or game_end.
func (s *Service) Advance(game *domain.Game) ([]Event, error) {
	switch game.Phase {
	case domain.PhaseRoundEnd:
		if err := game.ResolveRoundEnd(); err != nil {
			return nil, err
		}
		if game.Phase == domain.PhaseKingdomEnd {
			return []Event{{
				Kind: EventKingdomEnded,
				Payload: KingdomEndedPayload{
					Kingdom: game.Kingdom,
					Scores:  s.scores(game),
				},
			}}, nil
		}
		return s.dealRound(game)
	case domain.PhaseKingdomEnd:
		if err := game.ResolveKingdomEnd(); err != nil {
			return nil, err
		}
		if game.Phase == domain.PhaseGameEnd {
			return []Event{{
				Kind: EventGameEnded,
				Payload: GameEndedPayload{
					Standings: s.standings(game),
					Scores:    s.scores(game),
				},
			}}, nil
		}
		return s.dealRound(game)
	default:
		return nil, domain.ErrWrongPhase
	}
}

// dealRound shuffles, deals, and emits the private hands plus the contract
// selection prompt for the new round.
func (s *Service) dealRound(game *domain.Game) ([]Event, error) {
	deck := domain.NewDeck()
	domain.ShuffleDeck(deck, s.rng)

	var dealt [domain.NumSeats][]domain.Card
	for seat := 0; seat < domain.NumSeats; seat++ {
		dealt[seat] = append([]domain.Card(nil), deck[seat*domain.HandSize:(seat+1)*domain.HandSize]...)
	}
	if err := game.Deal(dealt); err != nil {
		return nil, err
	}

	events := make([]Event, 0, domain.NumSeats+1)
	for _, p := range game.Players {
		events = append(events, Event{
			Kind: EventHandDealt,
			Payload: HandDealtPayload{
				UserID: p.UserID,
				Hand:   p.Hand,
			},
			Recipients: []string{p.UserID},
		})
	}
	events = append(events, Event{
		Kind: EventContractSelection,
		Payload: ContractSelectionPayload{
			KingUserID: s.userAt(game, game.King),
			Round:      game.Round,
			Kingdom:    game.Kingdom,
			Available:  domain.AvailableContracts(game.Used),
		},
	})
	return events, nil
}

// appendProgress turns the engine's automatic advancement after a command
// into events: one turn_passed per auto-passed seat, and the round end when
// play ran out.
func (s *Service) appendProgress(game *domain.Game, events []Event) []Event {
	next := ""
	if game.Phase == domain.PhasePlaying {
		next = s.userAt(game, game.Current)
	}
	for _, seat := range game.AutoPassed {
		events = append(events, Event{
			Kind: EventTurnPassed,
			Payload: TurnPassedPayload{
				UserID:         s.userAt(game, seat),
				Auto:           true,
				NextTurnUserID: next,
			},
		})
	}
	if game.Phase == domain.PhaseRoundEnd {
		events = append(events, s.roundEndedEvent(game))
	}
	return events
}

func (s *Service) roundEndedEvent(game *domain.Game) Event {
	return Event{
		Kind: EventRoundEnded,
		Payload: RoundEndedPayload{
			Contract:   game.Contract,
			Round:      game.Round,
			Kingdom:    game.Kingdom,
			Deadlocked: game.Deadlocked,
			Scores:     s.scores(game),
		},
	}
}

func (s *Service) seatOf(game *domain.Game, userID string) (domain.Seat, error) {
	for _, p := range game.Players {
		if p.UserID == userID {
			return p.Seat, nil
		}
	}
	return 0, ErrUnknownPlayer
}

func (s *Service) userAt(game *domain.Game, seat domain.Seat) string {
	return game.Players[seat].UserID
}

func (s *Service) scores(game *domain.Game) map[string]int {
	out := make(map[string]int, domain.NumSeats)
	for _, p := range game.Players {
		out[p.UserID] = p.Score
	}
	return out
}

// standings orders user IDs best score first, seat order breaking ties.
func (s *Service) standings(game *domain.Game) []string {
	seats := make([]domain.Seat, 0, domain.NumSeats)
	for seat := domain.Seat(0); seat < domain.NumSeats; seat++ {
		seats = append(seats, seat)
	}
	sort.SliceStable(seats, func(i, j int) bool {
		return game.Players[seats[i]].Score > game.Players[seats[j]].Score
	})
	out := make([]string, 0, domain.NumSeats)
	for _, seat := range seats {
		out = append(out, game.Players[seat].UserID)
	}
	return out
}
