/*
Package sweep holds the bookkeeping shared by all parameter sweeps: the
grids of values that are swept and the per-series state that decides
whether a series is still worth running.

Sweeps over kernel parameters get expensive quickly. Once a series takes
too long for some parameter value, it is assumed to take at least as long
for every larger value and is skipped from then on. This monotonicity is
an assumption about the external tools that has never been verified, so
every transition is logged loudly.
*/
package sweep

import (
	"time"

	"github.com/rs/zerolog/log"
)

// State is the state of an Axis.
type State int

const (
	Active State = iota
	Skipped
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Skipped:
		return "skipped"
	}
	return "unknown"
}

// Timing is the outcome of one timed run of an external tool.
type Timing struct {
	Elapsed  time.Duration
	TimedOut bool
}

// Value is the number recorded in a result table for a timing. Runs that
// timed out are recorded as zero.
func (t Timing) Value() float64 {
	if t.TimedOut {
		return 0
	}
	return t.Elapsed.Seconds()
}

// SkipRule decides when an Axis moves from Active to Skipped.
type SkipRule struct {
	// A run that takes at least MaxTime makes its axis skip all later
	// values...
	MaxTime time.Duration

	// ...but only once the swept value is larger than MinValue. Small
	// values are always run.
	MinValue int

	// Disabled turns skipping off entirely. Every value is then run, and
	// timeouts are recorded as zero.
	Disabled bool
}

// DefaultSkipRule is the rule used by the timing experiments.
var DefaultSkipRule = SkipRule{
	MaxTime:  30 * time.Minute,
	MinValue: 8,
}

// Axis tracks one series of a sweep. It starts Active and becomes Skipped
// at most once. A Skipped axis never becomes Active again.
type Axis struct {
	Name  string
	Rule  SkipRule
	state State
}

// NewAxis returns an active axis.
func NewAxis(name string, rule SkipRule) *Axis {
	return &Axis{Name: name, Rule: rule}
}

// NewSkippedAxis returns an axis that is skipped from the start. This is
// used for series that are switched off in the configuration.
func NewSkippedAxis(name string) *Axis {
	return &Axis{Name: name, state: Skipped}
}

// State returns the current state.
func (a *Axis) State() State {
	return a.state
}

// Active returns true if the next value of the sweep should be run.
func (a *Axis) Active() bool {
	return a.state == Active
}

// Observe feeds the timing of the run for the swept value into the axis.
// It returns true if the axis just became Skipped.
func (a *Axis) Observe(value int, t Timing) bool {
	if a.state == Skipped || a.Rule.Disabled {
		return false
	}
	tooSlow := t.Elapsed >= a.Rule.MaxTime && value > a.Rule.MinValue
	if !t.TimedOut && !tooSlow {
		return false
	}

	a.state = Skipped
	log.Warn().
		Str("series", a.Name).
		Int("value", value).
		Dur("elapsed", t.Elapsed).
		Bool("timed_out", t.TimedOut).
		Msg("Skipping all larger values; assumes cost grows with the " +
			"swept parameter.")
	return true
}

// Run calls fun if the axis is active, observes its timing and returns the
// value to record. Skipped axes record zero without calling fun.
func (a *Axis) Run(value int, fun func() (Timing, error)) (float64, error) {
	if !a.Active() {
		return 0, nil
	}
	t, err := fun()
	if err != nil {
		return 0, err
	}
	a.Observe(value, t)
	return t.Value(), nil
}
