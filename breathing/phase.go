package breathing

import "time"

type PhaseKind uint8

const (
	_ PhaseKind = iota
	Inhale
	Exhale
	Hold
	Recovery
)

func (k PhaseKind) String() string {
	switch k {
	case Inhale:
		return "Inhale"
	case Exhale:
		return "Exhale"
	case Hold:
		return "Hold"
	case Recovery:
		return "Recovery"
	default:
		return "Unknown"
	}
}

// IsHold reports whether k is timed against a hold goal.
func (k PhaseKind) IsHold() bool {
	return k == Hold || k == Recovery
}

// Phase is one timed segment of a timeline. Breath phases carry a breath index,
// hold phases carry their goal; neither is reachable on the other kind.
type Phase struct {
	kind     PhaseKind
	duration time.Duration
	round    int
	breath   int
	holdGoal time.Duration
}

func breathPhase(kind PhaseKind, d time.Duration, round, breath int) Phase {
	return Phase{kind: kind, duration: d, round: round, breath: breath}
}

func holdPhase(kind PhaseKind, goal time.Duration, round int) Phase {
	return Phase{kind: kind, duration: goal, round: round, holdGoal: goal}
}

func (p Phase) Kind() PhaseKind {
	return p.kind
}

func (p Phase) Duration() time.Duration {
	return p.duration
}

// Round is 1-based.
func (p Phase) Round() int {
	return p.round
}

// Breath returns the 1-based breath index within the round for Inhale and
// Exhale phases.
func (p Phase) Breath() (int, bool) {
	if p.kind.IsHold() || p.kind == 0 {
		return 0, false
	}
	return p.breath, true
}

// HoldGoal returns the goal for Hold and Recovery phases.
func (p Phase) HoldGoal() (time.Duration, bool) {
	if !p.kind.IsHold() {
		return 0, false
	}
	return p.holdGoal, true
}

// PhaseKey identifies a phase for transition detection.
type PhaseKey struct {
	Kind   PhaseKind
	Round  int
	Breath int
}

func (p Phase) Key() PhaseKey {
	return PhaseKey{Kind: p.kind, Round: p.round, Breath: p.breath}
}
