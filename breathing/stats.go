package breathing

import "time"

type Stats struct {
	RoundsCompleted int
	LongestHold     time.Duration
	Duration        time.Duration
}

// Aggregate summarizes progress through tl after elapsed. A round counts as
// completed once its Recovery phase has fully elapsed. LongestHold and Duration
// are rounded to whole seconds.
func Aggregate(tl Timeline, elapsed time.Duration) Stats {
	elapsed = max(0, min(elapsed, tl.total))
	remaining := elapsed

	var stats Stats
	var longest time.Duration
	for _, phase := range tl.phases {
		inPhase := min(remaining, phase.duration)
		if phase.kind.IsHold() {
			longest = max(longest, inPhase)
		}
		if phase.kind == Recovery && remaining >= phase.duration {
			stats.RoundsCompleted = max(stats.RoundsCompleted, phase.round)
		}

		remaining -= phase.duration
		if remaining <= 0 {
			break
		}
	}

	stats.LongestHold = longest.Round(time.Second)
	stats.Duration = elapsed.Round(time.Second)
	return stats
}
