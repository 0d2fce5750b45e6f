package breathing

import (
	"sort"
	"time"
)

// Snapshot is where an elapsed duration falls within a timeline.
type Snapshot struct {
	Index          int
	Phase          Phase
	Next           *Phase
	PhaseElapsed   time.Duration
	PhaseRemaining time.Duration
	// Elapsed is capped at Total; Complete uses the raw value.
	Elapsed  time.Duration
	Total    time.Duration
	Complete bool

	Round           int
	TotalRounds     int
	Breath          int // 0 outside breath phases
	BreathsPerRound int
}

// Resolve maps elapsed onto tl. A position exactly on a phase boundary belongs
// to the phase starting there. Negative elapsed counts as zero.
func Resolve(tl Timeline, elapsed time.Duration) Snapshot {
	elapsed = max(elapsed, 0)
	pos := min(elapsed, tl.total)
	snap := Snapshot{
		Elapsed:         pos,
		Total:           tl.total,
		Complete:        elapsed >= tl.total,
		TotalRounds:     tl.Rounds,
		BreathsPerRound: tl.BreathsPerRound,
	}
	n := len(tl.phases)
	if n == 0 {
		return snap
	}

	i := sort.Search(n, func(i int) bool {
		return tl.starts[i]+tl.phases[i].duration > pos
	})
	if i == n {
		i = n - 1
	}

	phase := tl.phases[i]
	snap.Index = i
	snap.Phase = phase
	snap.PhaseElapsed = min(pos-tl.starts[i], phase.duration)
	snap.PhaseRemaining = max(phase.duration-snap.PhaseElapsed, 0)
	snap.Round = phase.round
	if b, ok := phase.Breath(); ok {
		snap.Breath = b
	}
	if i+1 < n {
		next := tl.phases[i+1]
		snap.Next = &next
	}
	return snap
}
