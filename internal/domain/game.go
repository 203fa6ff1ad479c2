package domain

import "errors"

// Phase is the lifecycle stage of a round within a game.
type Phase string

const (
	// PhaseContractSelection waits for the king to pick a contract.
	PhaseContractSelection Phase = "contract_selection"
	// PhasePlaying is the active card-play state.
	PhasePlaying Phase = "playing"
	// PhaseTrickComplete holds a finished trick for settlement.
	PhaseTrickComplete Phase = "trick_complete"
	// PhaseRoundEnd is reached when hands are exhausted or Trex deadlocks.
	PhaseRoundEnd Phase = "round_end"
	// PhaseKingdomEnd is reached when every contract of the kingdom was played.
	PhaseKingdomEnd Phase = "kingdom_end"
	// PhaseGameEnd is terminal.
	PhaseGameEnd Phase = "game_end"
)

var (
	ErrWrongPhase       = errors.New("operation not valid in current phase")
	ErrNotYourTurn      = errors.New("not this seat's turn")
	ErrNotKing          = errors.New("only the king selects the contract")
	ErrContractUsed     = errors.New("contract already used this kingdom")
	ErrCardNotHeld      = errors.New("card not in hand")
	ErrIllegalCard      = errors.New("card not legal under the active contract")
	ErrMustPlay         = errors.New("seat holds a legal card and must play it")
	ErrDoubleNotAllowed = errors.New("double not allowed")
	ErrTrickIncomplete  = errors.New("current trick is not complete")
)

// MaxAutoPasses bounds consecutive automatic Trex passes: one per seat. Hitting
// the ceiling means every seat is stuck and the round resolves as a deadlock.
const MaxAutoPasses = NumSeats

// HandSize is the deal size per seat.
const HandSize = 13

// GameRules carries the table-level configuration of a game.
type GameRules struct {
	ContractsPerKingdom int
	KingdomLimit        int
}

// DefaultRules plays four contracts per kingdom over two kingdoms.
var DefaultRules = GameRules{ContractsPerKingdom: 4, KingdomLimit: 2}

// Player holds one seat's state.
type Player struct {
	Seat   Seat
	UserID string
	IsBot  bool
	Hand   []Card
	Score  int
	Tricks int // tricks captured this round
}

// Game is the authoritative state of one Trix table. It is owned by a single
// orchestrating loop; every mutation goes through its methods and bumps
// Generation so stale async results can be rejected.
type Game struct {
	Phase    Phase
	Contract Contract // empty while selecting
	Doubled  bool
	King     Seat
	Current  Seat
	Round    int // 1-based within the kingdom
	Kingdom  int // 1-based
	Used     map[Contract]bool

	Players         [NumSeats]*Player
	CurrentTrick    *Trick
	CompletedTricks []Trick

	Trex         *TrexLayout
	TrexFinished []Seat

	KingOfHeartsScored bool
	Deadlocked         bool

	// AutoPassed lists the seats the engine passed through while advancing
	// after the latest accepted command. Reset on every command.
	AutoPassed []Seat

	Generation uint64

	Rules GameRules
}

// NewGame creates a fresh game with empty hands, waiting for the first deal.
func NewGame(rules GameRules, king Seat) *Game {
	g := &Game{
		Phase:   PhaseContractSelection,
		King:    king,
		Current: king,
		Round:   1,
		Kingdom: 1,
		Used:    make(map[Contract]bool),
		Rules:   rules,
	}
	for s := Seat(0); s < NumSeats; s++ {
		g.Players[s] = &Player{Seat: s}
	}
	return g
}

func (g *Game) bump() { g.Generation++ }

// Deal hands out a fresh round. Valid only in contract selection with empty
// hands, which is how every round starts.
func (g *Game) Deal(hands [NumSeats][]Card) error {
	if g.Phase != PhaseContractSelection {
		return ErrWrongPhase
	}
	for s := Seat(0); s < NumSeats; s++ {
		hand := append([]Card(nil), hands[s]...)
		SortHand(hand)
		g.Players[s].Hand = hand
		g.Players[s].Tricks = 0
	}
	g.CurrentTrick = &Trick{}
	g.CompletedTricks = nil
	g.Current = g.King
	g.bump()
	return nil
}

// SelectContract commits the king's choice and moves the round into play.
func (g *Game) SelectContract(seat Seat, contract Contract) error {
	if g.Phase != PhaseContractSelection {
		return ErrWrongPhase
	}
	if seat != g.King {
		return ErrNotKing
	}
	if g.Used[contract] {
		return ErrContractUsed
	}
	if _, ok := rulesTable[contract]; !ok {
		return ErrIllegalCard
	}
	g.Contract = contract
	g.Used[contract] = true
	g.Phase = PhasePlaying
	g.Current = g.King
	g.AutoPassed = nil
	if contract == ContractTrex {
		g.Trex = NewTrexLayout()
		g.TrexFinished = nil
		g.advanceTrex(g.King)
	}
	g.bump()
	return nil
}

// DeclareDouble doubles the King of Hearts penalty for this round. The
// declaring seat must hold the King of Hearts, and no card may have been
// played yet.
func (g *Game) DeclareDouble(seat Seat) error {
	if g.Phase != PhasePlaying || g.Contract != ContractKingOfHearts {
		return ErrDoubleNotAllowed
	}
	if g.Doubled || len(g.CompletedTricks) > 0 || len(g.CurrentTrick.Plays) > 0 {
		return ErrDoubleNotAllowed
	}
	if !ContainsCard(g.Players[seat].Hand, KingOfHearts) {
		return ErrDoubleNotAllowed
	}
	g.Doubled = true
	g.bump()
	return nil
}

// LegalMoves returns the cards seat may play under the active contract.
func (g *Game) LegalMoves(seat Seat) []Card {
	if g.Phase != PhasePlaying {
		return nil
	}
	return RulesFor(g.Contract).LegalMoves(g, seat)
}

// PlayCard commits one card for the current seat. On the fourth card of a
// trick the game moves to trick settlement; in Trex the card joins the layout
// and the turn advances through any stuck seats.
func (g *Game) PlayCard(seat Seat, card Card) error {
	if g.Phase != PhasePlaying {
		return ErrWrongPhase
	}
	if seat != g.Current {
		return ErrNotYourTurn
	}
	p := g.Players[seat]
	if !ContainsCard(p.Hand, card) {
		return ErrCardNotHeld
	}
	if !ContainsCard(g.LegalMoves(seat), card) {
		return ErrIllegalCard
	}
	g.AutoPassed = nil

	if g.Contract == ContractTrex {
		g.Trex.Place(card)
		p.Hand = RemoveCard(p.Hand, card)
		if len(p.Hand) == 0 {
			g.TrexFinished = append(g.TrexFinished, seat)
		}
		if len(g.TrexFinished) >= NumSeats-1 {
			g.finishRound(false)
		} else {
			g.advanceTrex(seat.Next())
		}
		g.bump()
		return nil
	}

	g.CurrentTrick.Plays = append(g.CurrentTrick.Plays, Play{Seat: seat, Card: card})
	p.Hand = RemoveCard(p.Hand, card)
	if g.CurrentTrick.Complete() {
		g.Phase = PhaseTrickComplete
	} else {
		g.Current = seat.Next()
	}
	g.bump()
	return nil
}

// PassTurn is the explicit Trex pass. It is accepted only when the seat truly
// has no legal card; the engine then advances exactly as it would have done on
// its own.
func (g *Game) PassTurn(seat Seat) error {
	if g.Phase != PhasePlaying || g.Contract != ContractTrex {
		return ErrWrongPhase
	}
	if seat != g.Current {
		return ErrNotYourTurn
	}
	if len(g.LegalMoves(seat)) > 0 {
		return ErrMustPlay
	}
	// The explicit pass is the command itself; AutoPassed collects only the
	// seats the engine skips on its way to the next playable one.
	g.AutoPassed = nil
	g.advanceTrex(seat.Next())
	g.bump()
	return nil
}

// advanceTrex finds the next seat with a legal card, starting at from and
// passing stuck seats through synchronously. Hitting the auto-pass ceiling
// forces a deadlock round end.
func (g *Game) advanceTrex(from Seat) {
	streak := 0
	s := from
	for {
		p := g.Players[s]
		if len(p.Hand) > 0 {
			if len(g.Trex.LegalFrom(p.Hand)) > 0 {
				g.Current = s
				return
			}
			g.AutoPassed = append(g.AutoPassed, s)
			streak++
			if streak >= MaxAutoPasses {
				g.Deadlocked = true
				g.finishRound(true)
				return
			}
		}
		s = s.Next()
	}
}

// CompleteTrick settles the held trick: resolves the winner, applies trick
// scoring exactly once, freezes the trick, and either starts the next trick or
// ends the round. The settlement delay before calling this is the caller's
// concern and purely cosmetic.
func (g *Game) CompleteTrick() error {
	if g.Phase != PhaseTrickComplete {
		return ErrWrongPhase
	}
	t := g.CurrentTrick
	if !t.Complete() {
		return ErrTrickIncomplete
	}
	if !t.Scored {
		t.ResolveWinner()
		RulesFor(g.Contract).ScoreTrick(g, t)
		t.Scored = true
		g.Players[t.Winner].Tricks++
	}
	g.CompletedTricks = append(g.CompletedTricks, *t)
	g.CurrentTrick = &Trick{}
	g.Current = t.Winner

	if len(g.Players[t.Winner].Hand) == 0 {
		g.finishRound(false)
	} else {
		g.Phase = PhasePlaying
	}
	g.bump()
	return nil
}

func (g *Game) finishRound(deadlock bool) {
	g.Deadlocked = deadlock
	RulesFor(g.Contract).ScoreRound(g)
	g.Phase = PhaseRoundEnd
}

// ResolveRoundEnd leaves round_end: into kingdom_end when every contract of
// the kingdom is used, otherwise into the next round's contract selection with
// the king rotated. A Deal must follow before the next selection.
func (g *Game) ResolveRoundEnd() error {
	if g.Phase != PhaseRoundEnd {
		return ErrWrongPhase
	}
	if len(g.Used) >= g.Rules.ContractsPerKingdom {
		g.Phase = PhaseKingdomEnd
		g.bump()
		return nil
	}
	g.nextRound()
	g.bump()
	return nil
}

// ResolveKingdomEnd leaves kingdom_end: into game_end at the kingdom limit,
// otherwise into the first round of a fresh kingdom.
func (g *Game) ResolveKingdomEnd() error {
	if g.Phase != PhaseKingdomEnd {
		return ErrWrongPhase
	}
	if g.Kingdom >= g.Rules.KingdomLimit {
		g.Phase = PhaseGameEnd
		g.bump()
		return nil
	}
	g.Kingdom++
	g.Round = 0
	g.Used = make(map[Contract]bool)
	g.nextRound()
	g.bump()
	return nil
}

func (g *Game) nextRound() {
	g.King = g.King.Next()
	g.Round++
	g.Contract = ""
	g.Doubled = false
	g.KingOfHeartsScored = false
	g.Deadlocked = false
	g.Trex = nil
	g.TrexFinished = nil
	g.CurrentTrick = &Trick{}
	g.CompletedTricks = nil
	g.AutoPassed = nil
	for _, p := range g.Players {
		p.Hand = nil
		p.Tricks = 0
	}
	g.Phase = PhaseContractSelection
	g.Current = g.King
}

// Clone returns a deep copy safe to hand to a concurrent reader. The bot
// scheduler decides on a clone while the loop keeps mutating the original.
func (g *Game) Clone() *Game {
	c := *g
	c.Used = make(map[Contract]bool, len(g.Used))
	for k, v := range g.Used {
		c.Used[k] = v
	}
	for s, p := range g.Players {
		cp := *p
		cp.Hand = append([]Card(nil), p.Hand...)
		c.Players[s] = &cp
	}
	if g.CurrentTrick != nil {
		t := *g.CurrentTrick
		t.Plays = append([]Play(nil), g.CurrentTrick.Plays...)
		c.CurrentTrick = &t
	}
	c.CompletedTricks = make([]Trick, len(g.CompletedTricks))
	for i, t := range g.CompletedTricks {
		t.Plays = append([]Play(nil), t.Plays...)
		c.CompletedTricks[i] = t
	}
	if g.Trex != nil {
		c.Trex = g.Trex.Clone()
	}
	c.TrexFinished = append([]Seat(nil), g.TrexFinished...)
	c.AutoPassed = append([]Seat(nil), g.AutoPassed...)
	return &c
}

// seatsFromKing returns all seats in clockwise order starting at the king.
func (g *Game) seatsFromKing() []Seat {
	out := make([]Seat, 0, NumSeats)
	s := g.King
	for i := 0; i < NumSeats; i++ {
		out = append(out, s)
		s = s.Next()
	}
	return out
}

// PlayedCards returns every card committed this round, from frozen tricks, the
// open trick, and the Trex layout.
func (g *Game) PlayedCards() []Card {
	var out []Card
	for i := range g.CompletedTricks {
		for _, p := range g.CompletedTricks[i].Plays {
			out = append(out, p.Card)
		}
	}
	if g.CurrentTrick != nil {
		for _, p := range g.CurrentTrick.Plays {
			out = append(out, p.Card)
		}
	}
	if g.Trex != nil {
		for s := Clubs; s <= Spades; s++ {
			for _, r := range g.Trex.PlacedRanks(s) {
				out = append(out, Card{Suit: s, Rank: r})
			}
		}
	}
	return out
}

// CheckConservation verifies that hands plus played cards form exactly one
// full deck. It returns an error describing the first discrepancy found.
func (g *Game) CheckConservation() error {
	seen := make(map[Card]int, 52)
	for _, p := range g.Players {
		for _, c := range p.Hand {
			seen[c]++
		}
	}
	for _, c := range g.PlayedCards() {
		seen[c]++
	}
	for _, c := range NewDeck() {
		switch seen[c] {
		case 1:
		case 0:
			return errors.New("card missing from play: " + c.String())
		default:
			return errors.New("card duplicated in play: " + c.String())
		}
	}
	return nil
}
