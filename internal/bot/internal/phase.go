package internal

// GamePhase buckets a round by how many tricks have resolved. Weights shift
// as the round ages: early tricks are cheap, late tricks carry the leftovers.
type GamePhase int

const (
	PhaseEarly GamePhase = iota
	PhaseMid
	PhaseEnd
)

// DetectPhase maps a 1-based trick number onto a phase.
func DetectPhase(trickNumber int) GamePhase {
	switch {
	case trickNumber <= 4:
		return PhaseEarly
	case trickNumber <= 9:
		return PhaseMid
	default:
		return PhaseEnd
	}
}

// TrickPosition is where in the current trick the seat acts.
type TrickPosition int

const (
	PositionEarly  TrickPosition = iota // leading or second to act
	PositionMiddle                      // third to act
	PositionLate                        // closing the trick
)

// DetectPosition maps the number of cards already in the trick onto a
// position class.
func DetectPosition(playsMade int) TrickPosition {
	switch {
	case playsMade <= 1:
		return PositionEarly
	case playsMade == 2:
		return PositionMiddle
	default:
		return PositionLate
	}
}
