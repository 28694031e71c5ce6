// Package metrics derives pacing judgments and dashboard aggregates from a
// ledger. Nothing here mutates the ledger; "today" is fixed when the engine
// is built so every result is deterministic.
package metrics

import (
	"fmt"
	"strings"
)

// AllocationPolicy selects how a book's actual daily pace is measured.
type AllocationPolicy int

const (
	// PerBookActual divides the minutes logged against a book by the days
	// since it was started.
	PerBookActual AllocationPolicy = iota
	// ProportionalAggregate splits the average daily minutes across the
	// books being read, weighted by each book's required pace.
	ProportionalAggregate
)

func (p AllocationPolicy) String() string {
	switch p {
	case PerBookActual:
		return "per-book"
	case ProportionalAggregate:
		return "proportional"
	default:
		return fmt.Sprintf("AllocationPolicy(%d)", int(p))
	}
}

// ParseAllocationPolicy converts a flag value into a policy.
func ParseAllocationPolicy(s string) (AllocationPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "per-book", "perbook", "per_book":
		return PerBookActual, nil
	case "proportional", "aggregate":
		return ProportionalAggregate, nil
	default:
		return 0, fmt.Errorf("unknown allocation policy %q (want per-book or proportional)", s)
	}
}

// Status classifies a book's pace against its finish date.
type Status string

const (
	StatusNoData  Status = "no_data"
	StatusOnTrack Status = "on_track"
	StatusBehind  Status = "behind"
	StatusDone    Status = "done"
)

// Label returns the display form of the status.
func (s Status) Label() string {
	switch s {
	case StatusNoData:
		return "No data"
	case StatusOnTrack:
		return "On Track"
	case StatusBehind:
		return "Behind"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}

// Engine computes metrics for one calendar day under one allocation policy.
type Engine struct {
	policy AllocationPolicy
	today  string
}

// New builds an engine. today is a YYYY-MM-DD date in the user's timezone.
func New(policy AllocationPolicy, today string) *Engine {
	return &Engine{policy: policy, today: today}
}

func (e *Engine) Policy() AllocationPolicy { return e.policy }
func (e *Engine) Today() string            { return e.today }
