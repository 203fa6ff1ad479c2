package domain

// Contract is one of the five Trix round arrangements. The king picks an
// unused one at the start of each round.
type Contract string

const (
	ContractKingOfHearts Contract = "king_of_hearts"
	ContractQueens       Contract = "queens"
	ContractDiamonds     Contract = "diamonds"
	ContractCollections  Contract = "collections"
	ContractTrex         Contract = "trex"
)

// AllContracts lists the contract universe in canonical order.
var AllContracts = []Contract{
	ContractKingOfHearts,
	ContractQueens,
	ContractDiamonds,
	ContractCollections,
	ContractTrex,
}

// ParseContract maps a wire identifier to a Contract.
func ParseContract(s string) (Contract, bool) {
	for _, c := range AllContracts {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// IsTrickTaking reports whether the contract plays out in four-card tricks.
// Trex is the one sequence-building contract.
func (c Contract) IsTrickTaking() bool {
	return c != ContractTrex
}

// AvailableContracts returns the universe minus the contracts already used
// this kingdom, in canonical order.
func AvailableContracts(used map[Contract]bool) []Contract {
	out := make([]Contract, 0, len(AllContracts))
	for _, c := range AllContracts {
		if !used[c] {
			out = append(out, c)
		}
	}
	return out
}
