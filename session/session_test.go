package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjamonnguyen/breathwork-go/breathing"
)

var t0 = time.Date(2026, 1, 21, 7, 30, 0, 0, time.UTC)

func at(d time.Duration) time.Time {
	return t0.Add(d)
}

// inhale [0,2) exhale [2,5) hold [5,10) recovery [10,14)
func oneRound() breathing.Config {
	return breathing.Config{
		Rounds:          1,
		BreathsPerRound: 1,
		Inhale:          2 * time.Second,
		Exhale:          3 * time.Second,
		HoldGoal:        5 * time.Second,
		RecoveryGoal:    4 * time.Second,
	}
}

func twoRounds() breathing.Config {
	cfg := oneRound()
	cfg.Rounds = 2
	return cfg
}

func started(t *testing.T, cfg breathing.Config) *Session {
	t.Helper()
	s := New()
	require.NoError(t, s.Start(cfg, t0))
	return s
}

func currentKind(t *testing.T, s *Session) breathing.PhaseKind {
	t.Helper()
	snap, ok := s.Snapshot()
	require.True(t, ok)
	return snap.Phase.Kind()
}

func TestSession_Start(t *testing.T) {
	s := New()
	assert.Equal(t, Idle, s.Status())
	_, ok := s.Timeline()
	assert.False(t, ok)

	require.NoError(t, s.Start(oneRound(), t0))

	assert.Equal(t, Running, s.Status())
	assert.Equal(t, t0, s.StartedAt())
	assert.Zero(t, s.Elapsed(t0))
	tl, ok := s.Timeline()
	require.True(t, ok)
	assert.Equal(t, 14*time.Second, tl.Total())

	snap, ok := s.Snapshot()
	require.True(t, ok)
	assert.Equal(t, 0, snap.Index)
	assert.Zero(t, snap.PhaseElapsed)
	_, ok = s.Result()
	assert.False(t, ok)
}

func TestSession_StartFillsDefaults(t *testing.T) {
	s := started(t, breathing.Config{Rounds: 1})

	cfg := s.Config()
	assert.Equal(t, 1, cfg.Rounds)
	assert.Equal(t, breathing.DefaultConfig().BreathsPerRound, cfg.BreathsPerRound)
	assert.Equal(t, breathing.DefaultConfig().Inhale, cfg.Inhale)
	assert.Zero(t, cfg.HoldGoal)
}

func TestSession_StartInvalidConfigLeavesStateUnchanged(t *testing.T) {
	s := started(t, oneRound())
	s.Tick(at(3 * time.Second))

	cfg := oneRound()
	cfg.Rounds = -1
	err := s.Start(cfg, at(4*time.Second))

	assert.ErrorIs(t, err, breathing.ErrInvalidConfiguration)
	assert.Equal(t, Running, s.Status())
	assert.Equal(t, oneRound(), s.Config())
	assert.Equal(t, 4*time.Second, s.Elapsed(at(4*time.Second)))
}

func TestSession_TickCompletesExactlyAtTotal(t *testing.T) {
	s := started(t, oneRound())

	for elapsed := 250 * time.Millisecond; elapsed < 14*time.Second; elapsed += 250 * time.Millisecond {
		require.True(t, s.Tick(at(elapsed)))
		require.Equal(t, Running, s.Status(), "completed early at %s", elapsed)
	}

	require.True(t, s.Tick(at(14*time.Second)))
	assert.Equal(t, Completed, s.Status())

	res, ok := s.Result()
	require.True(t, ok)
	assert.True(t, res.Completed)
	assert.Equal(t, t0, res.StartedAt)
	assert.Equal(t, at(14*time.Second), res.EndedAt)
	assert.Equal(t, oneRound(), res.Config)
	assert.Equal(t, breathing.Stats{RoundsCompleted: 1, LongestHold: 5 * time.Second, Duration: 14 * time.Second}, res.Stats)

	// frozen after completion
	assert.False(t, s.Tick(at(time.Minute)))
	assert.Equal(t, 14*time.Second, s.Elapsed(at(time.Minute)))
}

func TestSession_TickFollowsPhases(t *testing.T) {
	s := started(t, oneRound())

	s.Tick(at(1 * time.Second))
	assert.Equal(t, breathing.Inhale, currentKind(t, s))
	s.Tick(at(2 * time.Second))
	assert.Equal(t, breathing.Exhale, currentKind(t, s))
	s.Tick(at(6 * time.Second))
	assert.Equal(t, breathing.Hold, currentKind(t, s))
	s.Tick(at(13 * time.Second))
	assert.Equal(t, breathing.Recovery, currentKind(t, s))
}

func TestSession_PauseResumePreservesElapsed(t *testing.T) {
	s := started(t, oneRound())
	s.Tick(at(3 * time.Second))

	require.True(t, s.Pause(at(4*time.Second)))
	assert.Equal(t, Paused, s.Status())
	assert.Equal(t, 4*time.Second, s.Elapsed(at(9*time.Second)))
	assert.False(t, s.Tick(at(9*time.Second)), "tick is a no-op while paused")

	require.True(t, s.Resume(at(10*time.Second)))
	assert.Equal(t, Running, s.Status())

	s.Tick(at(11 * time.Second))
	assert.Equal(t, 5*time.Second, s.Elapsed(at(11*time.Second)))
	snap, _ := s.Snapshot()
	assert.Equal(t, breathing.Hold, snap.Phase.Kind())
	assert.Zero(t, snap.PhaseElapsed)

	// a second pause/resume cycle keeps banking
	require.True(t, s.Pause(at(12*time.Second)))
	require.True(t, s.Resume(at(20*time.Second)))
	s.Tick(at(28 * time.Second))
	assert.Equal(t, 14*time.Second, s.Elapsed(at(28*time.Second)))
	assert.Equal(t, Completed, s.Status())
}

func TestSession_InvalidTransitionsAreNoOps(t *testing.T) {
	s := New()
	assert.False(t, s.Tick(t0))
	assert.False(t, s.Pause(t0))
	assert.False(t, s.Resume(t0))
	assert.False(t, s.AdvanceFromHold(t0))
	assert.False(t, s.Stop(t0))
	assert.Equal(t, Idle, s.Status())

	require.NoError(t, s.Start(oneRound(), t0))
	assert.False(t, s.Resume(at(time.Second)), "resume requires paused")
	assert.False(t, s.AdvanceFromHold(at(time.Second)), "advance requires a hold phase")
	assert.Equal(t, Running, s.Status())

	require.True(t, s.Pause(at(time.Second)))
	assert.False(t, s.Pause(at(2*time.Second)))
	assert.False(t, s.AdvanceFromHold(at(2*time.Second)))
	assert.Equal(t, Paused, s.Status())
}

func TestSession_AdvanceFromHold(t *testing.T) {
	s := started(t, oneRound())
	s.Tick(at(6 * time.Second))
	require.Equal(t, breathing.Hold, currentKind(t, s))

	require.True(t, s.AdvanceFromHold(at(6500*time.Millisecond)))
	assert.Equal(t, Running, s.Status())
	assert.Equal(t, 10*time.Second, s.Elapsed(at(6500*time.Millisecond)))

	snap, _ := s.Snapshot()
	assert.Equal(t, breathing.Recovery, snap.Phase.Kind())
	assert.Zero(t, snap.PhaseElapsed)

	s.Tick(at(7500 * time.Millisecond))
	assert.Equal(t, 11*time.Second, s.Elapsed(at(7500*time.Millisecond)))
	hold := s.Hold()
	assert.True(t, hold.Active)
	assert.Equal(t, 10*time.Second, hold.PhaseStart)
	assert.Equal(t, time.Second, hold.Elapsed)
}

func TestSession_GoalReachedWhileTicking(t *testing.T) {
	s := started(t, oneRound())

	var firstReached time.Duration = -1
	for elapsed := time.Duration(0); elapsed < 14*time.Second; elapsed += 50 * time.Millisecond {
		require.True(t, s.Tick(at(elapsed)))
		if s.Hold().GoalReached && firstReached < 0 {
			firstReached = elapsed
			assert.Equal(t, breathing.Recovery, currentKind(t, s))
		}
	}
	assert.Equal(t, 10*time.Second, firstReached)
}

func TestSession_AdvanceOntoEmptyFinalRecoveryCompletes(t *testing.T) {
	cfg := oneRound()
	cfg.RecoveryGoal = 0
	s := started(t, cfg)
	s.Tick(at(6 * time.Second))
	require.Equal(t, breathing.Hold, currentKind(t, s))

	require.True(t, s.AdvanceFromHold(at(6*time.Second)))
	assert.Equal(t, Completed, s.Status())
	assert.Equal(t, HoldTracking{}, s.Hold())

	res, ok := s.Result()
	require.True(t, ok)
	assert.True(t, res.Completed)
	assert.Equal(t, 10*time.Second, res.Stats.Duration)
	assert.Equal(t, 5*time.Second, res.Stats.LongestHold)
	assert.False(t, s.Tick(at(7*time.Second)))
}

func TestSession_AdvanceFromFinalRecoveryStops(t *testing.T) {
	s := started(t, oneRound())
	s.Tick(at(11 * time.Second))
	require.Equal(t, breathing.Recovery, currentKind(t, s))

	require.True(t, s.AdvanceFromHold(at(12*time.Second)))
	assert.Equal(t, Completed, s.Status())

	res, ok := s.Result()
	require.True(t, ok)
	assert.False(t, res.Completed)
	assert.Equal(t, at(12*time.Second), res.EndedAt)
	assert.Equal(t, 12*time.Second, res.Stats.Duration)
	assert.Equal(t, 0, res.Stats.RoundsCompleted)
}

func TestSession_StopWhilePaused(t *testing.T) {
	s := started(t, twoRounds())
	s.Tick(at(8 * time.Second))
	require.True(t, s.Pause(at(8*time.Second)))

	require.True(t, s.Stop(at(time.Hour)))
	assert.Equal(t, Completed, s.Status())

	res, ok := s.Result()
	require.True(t, ok)
	assert.False(t, res.Completed)
	assert.Equal(t, 8*time.Second, res.Stats.Duration)
	assert.Equal(t, 3*time.Second, res.Stats.LongestHold)
	assert.Equal(t, at(time.Hour), res.EndedAt)
	assert.Equal(t, 8*time.Second, s.Elapsed(at(2*time.Hour)))

	assert.False(t, s.Stop(at(2*time.Hour)), "already completed")
}

func TestSession_HoldTracking(t *testing.T) {
	s := started(t, twoRounds())

	s.Tick(at(4 * time.Second))
	assert.Equal(t, HoldTracking{}, s.Hold())

	s.Tick(at(5250 * time.Millisecond))
	hold := s.Hold()
	assert.True(t, hold.Active)
	assert.Equal(t, 5*time.Second, hold.PhaseStart)
	assert.Equal(t, 250*time.Millisecond, hold.Elapsed)
	assert.False(t, hold.GoalReached)

	s.Tick(at(9 * time.Second))
	hold = s.Hold()
	assert.Equal(t, 5*time.Second, hold.PhaseStart, "start is kept across ticks")
	assert.Equal(t, 4*time.Second, hold.Elapsed)

	// the stopwatch keeps running into recovery
	s.Tick(at(10500 * time.Millisecond))
	require.Equal(t, breathing.Recovery, currentKind(t, s))
	hold = s.Hold()
	assert.True(t, hold.Active)
	assert.Equal(t, 5*time.Second, hold.PhaseStart)
	assert.Equal(t, 5500*time.Millisecond, hold.Elapsed)
	assert.True(t, hold.GoalReached, "5.5s counted against the 4s recovery goal")

	// recovery -> next round inhale clears it
	s.Tick(at(15 * time.Second))
	assert.Equal(t, breathing.Inhale, currentKind(t, s))
	assert.Equal(t, HoldTracking{}, s.Hold())
}

func TestSession_ResetAndRestart(t *testing.T) {
	s := started(t, oneRound())
	s.Tick(at(20 * time.Second))
	require.Equal(t, Completed, s.Status())

	s.Reset()
	assert.Equal(t, Idle, s.Status())
	_, ok := s.Result()
	assert.False(t, ok)
	_, ok = s.Snapshot()
	assert.False(t, ok)
	assert.Zero(t, s.Elapsed(at(time.Hour)))

	require.NoError(t, s.Start(twoRounds(), at(time.Hour)))
	assert.Equal(t, Running, s.Status())
	assert.Equal(t, 2*time.Second, s.Elapsed(at(time.Hour+2*time.Second)))

	// start from running re-initializes too
	require.NoError(t, s.Start(oneRound(), at(2*time.Hour)))
	assert.Zero(t, s.Elapsed(at(2*time.Hour)))
	assert.Equal(t, at(2*time.Hour), s.StartedAt())
}

func TestSession_ClockSkewDoesNotRewind(t *testing.T) {
	s := started(t, oneRound())
	s.Tick(at(3 * time.Second))
	require.True(t, s.Pause(at(3*time.Second)))
	require.True(t, s.Resume(at(10*time.Second)))

	s.Tick(at(9 * time.Second))
	assert.Equal(t, 3*time.Second, s.Elapsed(at(9*time.Second)))
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "paused", Paused.String())
	assert.Equal(t, "completed", Completed.String())
}
