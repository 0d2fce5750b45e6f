package breathing

import "time"

// Timeline is the immutable phase sequence for one session.
type Timeline struct {
	phases []Phase
	// starts[i] is the offset at which phases[i] begins
	starts []time.Duration
	total  time.Duration

	Rounds          int
	BreathsPerRound int
	HoldGoal        time.Duration
	RecoveryGoal    time.Duration
}

// Build expands cfg into its timeline. Each round is BreathsPerRound
// inhale/exhale pairs followed by one Hold and one Recovery phase.
func Build(cfg Config) (Timeline, error) {
	if err := cfg.Validate(); err != nil {
		return Timeline{}, err
	}

	n := cfg.Rounds * (2*cfg.BreathsPerRound + 2)
	tl := Timeline{
		phases:          make([]Phase, 0, n),
		starts:          make([]time.Duration, 0, n),
		Rounds:          cfg.Rounds,
		BreathsPerRound: cfg.BreathsPerRound,
		HoldGoal:        cfg.HoldGoal,
		RecoveryGoal:    cfg.RecoveryGoal,
	}
	for round := 1; round <= cfg.Rounds; round++ {
		for breath := 1; breath <= cfg.BreathsPerRound; breath++ {
			tl.add(breathPhase(Inhale, cfg.Inhale, round, breath))
			tl.add(breathPhase(Exhale, cfg.Exhale, round, breath))
		}
		tl.add(holdPhase(Hold, cfg.HoldGoal, round))
		tl.add(holdPhase(Recovery, cfg.RecoveryGoal, round))
	}
	return tl, nil
}

// MustBuild is Build for configurations known to be valid.
func MustBuild(cfg Config) Timeline {
	tl, err := Build(cfg)
	if err != nil {
		panic(err)
	}
	return tl
}

func (tl *Timeline) add(p Phase) {
	tl.phases = append(tl.phases, p)
	tl.starts = append(tl.starts, tl.total)
	tl.total += p.duration
}

// Total is the sum of all phase durations.
func (tl Timeline) Total() time.Duration {
	return tl.total
}

func (tl Timeline) Len() int {
	return len(tl.phases)
}

// Phase returns the i-th phase.
func (tl Timeline) Phase(i int) Phase {
	return tl.phases[i]
}

// Phases returns a copy of the phase sequence.
func (tl Timeline) Phases() []Phase {
	return append([]Phase(nil), tl.phases...)
}

// Start returns the offset at which the i-th phase begins.
func (tl Timeline) Start(i int) time.Duration {
	return tl.starts[i]
}
