// Package tracking models the fulfillment lifecycle of a shipment as a
// fixed, totally ordered sequence of stages. It only derives positions,
// percentages, and successors; whether a particular jump between stages is
// allowed is policy that belongs to the caller.
package tracking

import (
	"errors"
	"fmt"
	"math"
)

// Stage is one named step in the shipment lifecycle.
type Stage string

// The canonical seven-stage lifecycle used by the brokerage.
const (
	StageReceivedByAgent    Stage = "Received by Agent"
	StagePreparing          Stage = "Preparing"
	StageCollected          Stage = "Collected"
	StageShipping           Stage = "Shipping"
	StageLandedInCustoms    Stage = "Landed & In Customs"
	StageReadyForCollection Stage = "Ready for Collection"
	StageDelivered          Stage = "Delivered"
)

var (
	// ErrTerminalStage signals that a shipment is already at the last stage.
	ErrTerminalStage = errors.New("tracking: stage is terminal")
	// ErrUnknownStage signals a stored status that is not a member of the
	// sequence — a data-integrity anomaly the operator must correct.
	ErrUnknownStage = errors.New("tracking: unknown stage")
)

// Sequence is an immutable ordered list of stages. The zero value is not
// usable; construct with NewSequence or use Canonical.
type Sequence struct {
	stages []Stage
	index  map[Stage]int
}

// Canonical returns the brokerage's standard seven-stage sequence.
func Canonical() Sequence {
	s, err := NewSequence(
		StageReceivedByAgent,
		StagePreparing,
		StageCollected,
		StageShipping,
		StageLandedInCustoms,
		StageReadyForCollection,
		StageDelivered,
	)
	if err != nil {
		panic(err) // unreachable: the canonical list is well-formed
	}
	return s
}

// NewSequence builds a Sequence from an ordered stage list. Deployments
// with a different lifecycle supply their own list via configuration.
func NewSequence(stages ...Stage) (Sequence, error) {
	if len(stages) == 0 {
		return Sequence{}, errors.New("tracking: sequence must have at least one stage")
	}
	idx := make(map[Stage]int, len(stages))
	for i, st := range stages {
		if st == "" {
			return Sequence{}, fmt.Errorf("tracking: empty stage name at position %d", i)
		}
		if _, dup := idx[st]; dup {
			return Sequence{}, fmt.Errorf("tracking: duplicate stage %q", st)
		}
		idx[st] = i
	}
	return Sequence{stages: stages, index: idx}, nil
}

// Stages returns a copy of the ordered stage list.
func (s Sequence) Stages() []Stage {
	out := make([]Stage, len(s.stages))
	copy(out, s.stages)
	return out
}

// Len returns the number of stages.
func (s Sequence) Len() int { return len(s.stages) }

// First is the stage assigned to newly created orders.
func (s Sequence) First() Stage { return s.stages[0] }

// Last is the terminal stage.
func (s Sequence) Last() Stage { return s.stages[len(s.stages)-1] }

// IndexOf returns the zero-based position of a stage, or -1 if the stage
// is not a member of the sequence. -1 is a defined sentinel, not a failure.
func (s Sequence) IndexOf(st Stage) int {
	if i, ok := s.index[st]; ok {
		return i
	}
	return -1
}

// Contains reports sequence membership.
func (s Sequence) Contains(st Stage) bool { return s.IndexOf(st) >= 0 }

// Progress maps a stage to a completion percentage in 1..100. The first
// stage is always strictly positive (a just-created order has started its
// journey) and the last is exactly 100. Unknown stages clamp to 0 so a
// corrupted record renders as "no progress" instead of crashing a view.
func (s Sequence) Progress(st Stage) int {
	i := s.IndexOf(st)
	if i < 0 {
		return 0
	}
	return int(math.Ceil(100 * float64(i+1) / float64(len(s.stages))))
}

// Next returns the stage following st. It returns ErrTerminalStage when st
// is the last stage and ErrUnknownStage when st is not in the sequence.
func (s Sequence) Next(st Stage) (Stage, error) {
	i := s.IndexOf(st)
	switch {
	case i < 0:
		return "", fmt.Errorf("%w: %q", ErrUnknownStage, st)
	case i == len(s.stages)-1:
		return "", ErrTerminalStage
	}
	return s.stages[i+1], nil
}

// IsTerminal reports whether st is the last stage of the sequence.
func (s Sequence) IsTerminal(st Stage) bool {
	return len(s.stages) > 0 && st == s.Last()
}
