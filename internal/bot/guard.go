package bot

import (
	"trix/internal/domain"
)

// Override is the final safety check on every suggested card, whatever stage
// produced it. If the suggestion is the contract's catastrophic card and any
// legal alternative exists, the lowest alternative plays instead. A forced
// single card always passes through.
func Override(contract domain.Contract, candidate domain.Card, legal []domain.Card) domain.Card {
	bad, ok := domain.RulesFor(contract).CatastrophicCard()
	if !ok || candidate != bad {
		return candidate
	}
	alternatives := make([]domain.Card, 0, len(legal))
	for _, c := range legal {
		if c != bad {
			alternatives = append(alternatives, c)
		}
	}
	if len(alternatives) == 0 {
		return candidate
	}
	return lowestCard(alternatives)
}
