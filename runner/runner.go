// Package runner drives a session in real time: it ticks the session on an
// interval, fans cues out to subscribers and reports the final result.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/benjamonnguyen/breathwork-go/breathing"
	"github.com/benjamonnguyen/breathwork-go/cue"
	"github.com/benjamonnguyen/breathwork-go/session"
)

const DefaultTickInterval = 250 * time.Millisecond

var ErrNotStarted = errors.New("session not started")

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func SystemClock() Clock {
	return systemClock{}
}

type Options struct {
	TickInterval time.Duration
	Logger       *log.Logger
	// OnResult is called once per started session, when it completes.
	OnResult func(context.Context, session.Result) error
}

// Runner serializes every access to its session.
type Runner struct {
	mu       sync.Mutex
	sess     *session.Session
	clock    Clock
	opts     Options
	l        *log.Logger
	last     session.View
	reported bool

	subs   []chan cue.Cue
	closed bool
}

func New(sess *session.Session, clock Clock, opts Options) *Runner {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if clock == nil {
		clock = SystemClock()
	}
	return &Runner{
		sess:  sess,
		clock: clock,
		opts:  opts,
		l:     opts.Logger,
	}
}

// Subscribe registers a cue listener. Sends never block, so a slow listener
// misses cues once its buffer is full.
func (r *Runner) Subscribe(buffer int) <-chan cue.Cue {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan cue.Cue, buffer)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		close(ch)
		return ch
	}
	r.subs = append(r.subs, ch)
	return ch
}

// Close closes every subscriber channel. Later cues are dropped.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	for _, ch := range r.subs {
		close(ch)
	}
	r.subs = nil
}

func (r *Runner) Start(ctx context.Context, cfg breathing.Config) error {
	return r.apply(ctx, "start", func(s *session.Session, now time.Time) (bool, error) {
		if err := s.Start(cfg, now); err != nil {
			return false, err
		}
		r.last = session.View{}
		r.reported = false
		cfg := s.Config()
		r.l.Info("session started",
			"rounds", cfg.Rounds,
			"breaths", cfg.BreathsPerRound,
			"holdGoal", cfg.HoldGoal,
			"recoveryGoal", cfg.RecoveryGoal,
		)
		return true, nil
	})
}

// Step ticks the session once.
func (r *Runner) Step(ctx context.Context) error {
	err := r.apply(ctx, "tick", func(s *session.Session, now time.Time) (bool, error) {
		return s.Tick(now), nil
	})
	if errors.Is(err, session.ErrInvalidTransition) {
		return nil
	}
	return err
}

func (r *Runner) Pause(ctx context.Context) error {
	return r.apply(ctx, "pause", func(s *session.Session, now time.Time) (bool, error) {
		return s.Pause(now), nil
	})
}

func (r *Runner) Resume(ctx context.Context) error {
	return r.apply(ctx, "resume", func(s *session.Session, now time.Time) (bool, error) {
		return s.Resume(now), nil
	})
}

func (r *Runner) TogglePause(ctx context.Context) error {
	return r.apply(ctx, "toggle pause", func(s *session.Session, now time.Time) (bool, error) {
		switch s.Status() {
		case session.Running:
			return s.Pause(now), nil
		case session.Paused:
			return s.Resume(now), nil
		}
		return false, nil
	})
}

// AdvanceFromHold catches the session up to now before skipping, so the hold
// being skipped is the one currently shown.
func (r *Runner) AdvanceFromHold(ctx context.Context) error {
	return r.apply(ctx, "advance from hold", func(s *session.Session, now time.Time) (bool, error) {
		s.Tick(now)
		return s.AdvanceFromHold(now), nil
	})
}

func (r *Runner) Stop(ctx context.Context) error {
	return r.apply(ctx, "stop", func(s *session.Session, now time.Time) (bool, error) {
		return s.Stop(now), nil
	})
}

func (r *Runner) View() session.View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sess.View()
}

// Result is set once the session has completed.
func (r *Runner) Result() (session.Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sess.Result()
}

// Elapsed is the session's running time as of the clock's now.
func (r *Runner) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sess.Elapsed(r.clock.Now())
}

// Run ticks the session until it completes. Cancelling ctx stops the session
// and still reports its result.
func (r *Runner) Run(ctx context.Context) error {
	if r.View().Status == session.Idle {
		return ErrNotStarted
	}

	ticker := time.NewTicker(r.opts.TickInterval)
	defer ticker.Stop()
	for {
		if r.View().Status == session.Completed {
			return nil
		}
		select {
		case <-ctx.Done():
			err := r.Stop(context.WithoutCancel(ctx))
			if err != nil && !errors.Is(err, session.ErrInvalidTransition) {
				return err
			}
			return ctx.Err()
		case <-ticker.C:
			if err := r.Step(ctx); err != nil {
				return err
			}
		}
	}
}

// apply runs op under the lock, publishes the cues it caused and reports a
// completed session's result outside the lock.
func (r *Runner) apply(ctx context.Context, name string, op func(*session.Session, time.Time) (bool, error)) error {
	r.mu.Lock()
	now := r.clock.Now()
	applied, err := op(r.sess, now)
	if err != nil {
		r.mu.Unlock()
		return err
	}

	curr := r.sess.View()
	cues := cue.Detect(r.last, curr)
	r.last = curr
	r.broadcastLocked(cues)

	res, completed := r.sess.Result()
	report := completed && !r.reported
	if report {
		r.reported = true
	}
	r.mu.Unlock()

	if applied && name != "tick" {
		r.l.Debug("session updated", "op", name, "status", curr.Status, "phase", curr.Snapshot.Phase.Kind(), "elapsed", curr.Snapshot.Elapsed)
	}
	if report {
		if err := r.report(ctx, res); err != nil {
			return err
		}
	}
	if !applied {
		return fmt.Errorf("%w: cannot %s while %s", session.ErrInvalidTransition, name, curr.Status)
	}
	return nil
}

func (r *Runner) report(ctx context.Context, res session.Result) error {
	r.l.Info("session ended",
		"completed", res.Completed,
		"rounds", res.Stats.RoundsCompleted,
		"longestHold", res.Stats.LongestHold,
		"duration", res.Stats.Duration,
	)
	if r.opts.OnResult == nil {
		return nil
	}
	if err := r.opts.OnResult(ctx, res); err != nil {
		r.l.Error("failed to handle session result", "err", err)
		return fmt.Errorf("failed to handle session result: %w", err)
	}
	return nil
}

func (r *Runner) broadcastLocked(cues []cue.Cue) {
	for _, c := range cues {
		for _, ch := range r.subs {
			select {
			case ch <- c:
			default:
			}
		}
	}
}
