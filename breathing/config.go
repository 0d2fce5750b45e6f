// Package breathing expands a breathing protocol into a timed phase timeline
// and resolves elapsed time against it.
package breathing

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidConfiguration = errors.New("invalid breathing configuration")

// Config describes a breathing protocol. HoldGoal and RecoveryGoal may be zero.
type Config struct {
	Rounds          int
	BreathsPerRound int
	Inhale          time.Duration
	Exhale          time.Duration
	HoldGoal        time.Duration
	RecoveryGoal    time.Duration
}

func DefaultConfig() Config {
	return Config{
		Rounds:          3,
		BreathsPerRound: 30,
		Inhale:          2 * time.Second,
		Exhale:          2 * time.Second,
		HoldGoal:        60 * time.Second,
		RecoveryGoal:    15 * time.Second,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Rounds < 1:
		return fmt.Errorf("%w: rounds must be at least 1, got %d", ErrInvalidConfiguration, c.Rounds)
	case c.BreathsPerRound < 1:
		return fmt.Errorf("%w: breaths per round must be at least 1, got %d", ErrInvalidConfiguration, c.BreathsPerRound)
	case c.Inhale <= 0:
		return fmt.Errorf("%w: inhale must be positive, got %s", ErrInvalidConfiguration, c.Inhale)
	case c.Exhale <= 0:
		return fmt.Errorf("%w: exhale must be positive, got %s", ErrInvalidConfiguration, c.Exhale)
	case c.HoldGoal < 0:
		return fmt.Errorf("%w: hold goal must not be negative, got %s", ErrInvalidConfiguration, c.HoldGoal)
	case c.RecoveryGoal < 0:
		return fmt.Errorf("%w: recovery goal must not be negative, got %s", ErrInvalidConfiguration, c.RecoveryGoal)
	}
	return nil
}

// Overrides holds caller supplied fields. Nil fields keep the base value, so an
// explicit zero hold goal survives Merge.
type Overrides struct {
	Rounds          *int
	BreathsPerRound *int
	Inhale          *time.Duration
	Exhale          *time.Duration
	HoldGoal        *time.Duration
	RecoveryGoal    *time.Duration
}

// Merge returns c with every non-nil override applied.
func (c Config) Merge(o Overrides) Config {
	if o.Rounds != nil {
		c.Rounds = *o.Rounds
	}
	if o.BreathsPerRound != nil {
		c.BreathsPerRound = *o.BreathsPerRound
	}
	if o.Inhale != nil {
		c.Inhale = *o.Inhale
	}
	if o.Exhale != nil {
		c.Exhale = *o.Exhale
	}
	if o.HoldGoal != nil {
		c.HoldGoal = *o.HoldGoal
	}
	if o.RecoveryGoal != nil {
		c.RecoveryGoal = *o.RecoveryGoal
	}
	return c
}

// MergeNonZero fills the zero-valued fields of c from base. Hold goals are
// taken from c as-is since zero is a valid goal there.
func (c Config) MergeNonZero(base Config) Config {
	if c.Rounds == 0 {
		c.Rounds = base.Rounds
	}
	if c.BreathsPerRound == 0 {
		c.BreathsPerRound = base.BreathsPerRound
	}
	if c.Inhale == 0 {
		c.Inhale = base.Inhale
	}
	if c.Exhale == 0 {
		c.Exhale = base.Exhale
	}
	return c
}

// Limit is an inclusive range.
type Limit[T int | time.Duration] struct {
	Min, Max T
}

func (l Limit[T]) Clamp(v T) T {
	return min(l.Max, max(l.Min, v))
}

// Limits are the ranges user adjustable settings are clamped to.
var Limits = struct {
	Rounds          Limit[int]
	BreathsPerRound Limit[int]
	Inhale          Limit[time.Duration]
	Exhale          Limit[time.Duration]
	HoldGoal        Limit[time.Duration]
	RecoveryGoal    Limit[time.Duration]
}{
	Rounds:          Limit[int]{Min: 1, Max: 8},
	BreathsPerRound: Limit[int]{Min: 10, Max: 60},
	Inhale:          Limit[time.Duration]{Min: time.Second, Max: 4 * time.Second},
	Exhale:          Limit[time.Duration]{Min: time.Second, Max: 4 * time.Second},
	HoldGoal:        Limit[time.Duration]{Min: 0, Max: 180 * time.Second},
	RecoveryGoal:    Limit[time.Duration]{Min: 10 * time.Second, Max: 20 * time.Second},
}

// Clamp forces every field into Limits.
func (c Config) Clamp() Config {
	return Config{
		Rounds:          Limits.Rounds.Clamp(c.Rounds),
		BreathsPerRound: Limits.BreathsPerRound.Clamp(c.BreathsPerRound),
		Inhale:          Limits.Inhale.Clamp(c.Inhale),
		Exhale:          Limits.Exhale.Clamp(c.Exhale),
		HoldGoal:        Limits.HoldGoal.Clamp(c.HoldGoal),
		RecoveryGoal:    Limits.RecoveryGoal.Clamp(c.RecoveryGoal),
	}
}

type Pace string

const (
	PaceSlow     Pace = "slow"
	PaceStandard Pace = "standard"
	PaceFast     Pace = "fast"
)

type paceTiming struct {
	inhale, exhale time.Duration
}

var pacePresets = map[Pace]paceTiming{
	PaceSlow:     {inhale: 3 * time.Second, exhale: 3 * time.Second},
	PaceStandard: {inhale: 2 * time.Second, exhale: 2 * time.Second},
	PaceFast:     {inhale: 1500 * time.Millisecond, exhale: 1500 * time.Millisecond},
}

func ParsePace(s string) (Pace, error) {
	p := Pace(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := pacePresets[p]; !ok {
		return "", fmt.Errorf("unknown pace %q: want slow, standard or fast", s)
	}
	return p, nil
}

// WithPace replaces the breath timings with the preset for p. Unknown paces
// leave c unchanged.
func (c Config) WithPace(p Pace) Config {
	timing, ok := pacePresets[p]
	if !ok {
		return c
	}
	c.Inhale = timing.inhale
	c.Exhale = timing.exhale
	return c
}
