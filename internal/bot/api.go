package bot

import (
	"trix/internal/domain"
)

// Brain is the interface all rule-based strategies implement. The engine only
// asks a brain when the seat actually has a choice to make.
type Brain interface {
	// ChooseCard picks a card from the seat's legal moves.
	ChooseCard(game *domain.Game, seat domain.Seat) (domain.Card, error)
	// ChooseContract picks from the contracts still available this kingdom.
	ChooseContract(game *domain.Game, seat domain.Seat) (domain.Contract, error)
	// ShouldDouble decides whether to double while holding the King of Hearts.
	ShouldDouble(game *domain.Game, seat domain.Seat) bool
}

// DecisionKind tags what an agent decided.
type DecisionKind int

const (
	DecisionCard DecisionKind = iota
	DecisionContract
	DecisionDouble
	DecisionNone
)

// Decision is one resolved bot action.
type Decision struct {
	Kind     DecisionKind
	Card     domain.Card
	Contract domain.Contract
}
