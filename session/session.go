// Package session drives a breathing timeline through its lifecycle. The
// caller owns a Session and passes the current time into every transition.
package session

import (
	"errors"
	"time"

	"github.com/benjamonnguyen/breathwork-go/breathing"
)

type Status uint8

const (
	Idle Status = iota
	Running
	Paused
	Completed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// ErrInvalidTransition is for callers that surface rejected operations.
// Session methods themselves report it as a false return.
var ErrInvalidTransition = errors.New("invalid session transition")

type Result struct {
	Config    breathing.Config
	Stats     breathing.Stats
	StartedAt time.Time
	EndedAt   time.Time
	Completed bool
}

// HoldTracking is the count-up stopwatch started on entering a Hold phase. It
// keeps running through the following Recovery.
type HoldTracking struct {
	Active bool
	// PhaseStart is the session elapsed time at which the Hold began.
	PhaseStart  time.Duration
	Elapsed     time.Duration
	GoalReached bool
}

type Session struct {
	status   Status
	config   breathing.Config
	timeline breathing.Timeline
	snapshot breathing.Snapshot
	result   Result

	// anchor is when the current running interval began, zero unless Running.
	anchor      time.Time
	startedAt   time.Time
	accumulated time.Duration

	hold HoldTracking
}

func New() *Session {
	return &Session{}
}

// Start begins a new session from any state. Zero breath fields of cfg fall
// back to breathing.DefaultConfig. On an invalid configuration the session is
// left untouched.
func (s *Session) Start(cfg breathing.Config, now time.Time) error {
	cfg = cfg.MergeNonZero(breathing.DefaultConfig())
	tl, err := breathing.Build(cfg)
	if err != nil {
		return err
	}

	*s = Session{
		status:    Running,
		config:    cfg,
		timeline:  tl,
		snapshot:  breathing.Resolve(tl, 0),
		anchor:    now,
		startedAt: now,
	}
	return nil
}

// Tick advances a running session to now and completes it once the timeline
// has fully elapsed.
func (s *Session) Tick(now time.Time) bool {
	if s.status != Running {
		return false
	}

	elapsed := s.Elapsed(now)
	snap := breathing.Resolve(s.timeline, elapsed)
	s.snapshot = snap
	if snap.Complete {
		s.complete(elapsed, now, true)
		return true
	}

	s.trackHold(elapsed)
	return true
}

func (s *Session) Pause(now time.Time) bool {
	if s.status != Running {
		return false
	}
	s.accumulated = s.Elapsed(now)
	s.anchor = time.Time{}
	s.status = Paused
	return true
}

func (s *Session) Resume(now time.Time) bool {
	if s.status != Paused {
		return false
	}
	s.anchor = now
	s.status = Running
	return true
}

// AdvanceFromHold ends the current Hold or Recovery phase early and moves to
// the start of the following phase. Skipping the final phase stops the session.
func (s *Session) AdvanceFromHold(now time.Time) bool {
	if s.status != Running || !s.snapshot.Phase.Kind().IsHold() {
		return false
	}
	if s.snapshot.Next == nil {
		return s.Stop(now)
	}

	i := s.snapshot.Index
	boundary := s.timeline.Start(i) + s.timeline.Phase(i).Duration()
	elapsed := max(boundary, s.Elapsed(now))

	s.accumulated = elapsed
	s.anchor = now
	s.snapshot = breathing.Resolve(s.timeline, elapsed)
	s.hold = HoldTracking{}
	if s.snapshot.Complete {
		s.complete(elapsed, now, true)
		return true
	}
	s.trackHold(elapsed)
	return true
}

// Stop ends a running or paused session early.
func (s *Session) Stop(now time.Time) bool {
	if s.status != Running && s.status != Paused {
		return false
	}
	elapsed := s.Elapsed(now)
	s.snapshot = breathing.Resolve(s.timeline, elapsed)
	s.complete(elapsed, now, false)
	return true
}

// Reset discards the session and returns to Idle.
func (s *Session) Reset() {
	*s = Session{}
}

func (s *Session) complete(elapsed time.Duration, now time.Time, completed bool) {
	s.accumulated = elapsed
	s.anchor = time.Time{}
	s.status = Completed
	s.hold = HoldTracking{}
	s.result = Result{
		Config:    s.config,
		Stats:     breathing.Aggregate(s.timeline, elapsed),
		StartedAt: s.startedAt,
		EndedAt:   now,
		Completed: completed,
	}
}

// trackHold keeps the hold stopwatch. The start is fixed on entering a hold
// phase and cleared only once a breath phase is reached.
func (s *Session) trackHold(elapsed time.Duration) {
	snap := s.snapshot
	goal, ok := snap.Phase.HoldGoal()
	if !ok {
		s.hold = HoldTracking{}
		return
	}
	if !s.hold.Active {
		s.hold = HoldTracking{Active: true, PhaseStart: snap.Elapsed - snap.PhaseElapsed}
	}
	s.hold.Elapsed = max(elapsed-s.hold.PhaseStart, 0)
	s.hold.GoalReached = s.hold.Elapsed >= goal
}

// Elapsed is the total running time as of now, excluding paused intervals.
func (s *Session) Elapsed(now time.Time) time.Duration {
	if s.status != Running {
		return s.accumulated
	}
	return s.accumulated + max(now.Sub(s.anchor), 0)
}

func (s *Session) Status() Status {
	return s.status
}

func (s *Session) Config() breathing.Config {
	return s.config
}

func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// Timeline is only available outside Idle.
func (s *Session) Timeline() (breathing.Timeline, bool) {
	return s.timeline, s.status != Idle
}

// Snapshot returns the snapshot computed by the latest transition.
func (s *Session) Snapshot() (breathing.Snapshot, bool) {
	return s.snapshot, s.status != Idle
}

// Result is set once the session is Completed.
func (s *Session) Result() (Result, bool) {
	return s.result, s.status == Completed
}

func (s *Session) Hold() HoldTracking {
	return s.hold
}

// View is the renderable state after the latest transition.
type View struct {
	Status   Status
	Snapshot breathing.Snapshot
	Hold     HoldTracking
}

func (s *Session) View() View {
	return View{
		Status:   s.status,
		Snapshot: s.snapshot,
		Hold:     s.hold,
	}
}
