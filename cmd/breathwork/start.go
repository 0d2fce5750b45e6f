package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/benjamonnguyen/breathwork-go/breathing"
	"github.com/benjamonnguyen/breathwork-go/runner"
	"github.com/benjamonnguyen/breathwork-go/session"
	"github.com/benjamonnguyen/breathwork-go/settings"
)

type startOptions struct {
	rounds   int
	breaths  int
	hold     time.Duration
	recovery time.Duration
	inhale   time.Duration
	exhale   time.Duration
	pace     string
	rating   int
	notes    string
	noSave   bool
}

func NewStartCommand(a *app) *cobra.Command {
	var opts startOptions
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a guided breathing session",
		Long: `Start a guided breathing session.

Flags override the saved defaults for this session only. While the session
runs, type a command and press enter:

  p  pause or resume
  n  end the current hold early
  q  stop the session`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.loadSettings()
			if err != nil {
				return err
			}
			if !s.SafetyAcknowledged() {
				return errors.New("read the safety notice first: breathwork safety")
			}

			cfg, err := opts.config(cmd, s)
			if err != nil {
				return err
			}
			return a.runSession(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cfg, s.AudioEnabled, opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.rounds, "rounds", "r", 0, "number of rounds (1-8)")
	flags.IntVarP(&opts.breaths, "breaths", "b", 0, "breaths per round (10-60)")
	flags.DurationVar(&opts.hold, "hold", 0, "empty-lung hold goal, e.g. 90s")
	flags.DurationVar(&opts.recovery, "recovery", 0, "recovery hold goal, e.g. 15s")
	flags.DurationVar(&opts.inhale, "inhale", 0, "inhale duration")
	flags.DurationVar(&opts.exhale, "exhale", 0, "exhale duration")
	flags.StringVar(&opts.pace, "pace", "", "breathing pace (slow, standard, fast)")
	flags.IntVar(&opts.rating, "rating", 0, "rate the session 1-5")
	flags.StringVar(&opts.notes, "notes", "", "notes saved with the session")
	flags.BoolVar(&opts.noSave, "no-save", false, "do not save the session to history")
	return cmd
}

// config layers the pace preset and explicitly set flags over the saved
// defaults.
func (o startOptions) config(cmd *cobra.Command, s settings.Settings) (breathing.Config, error) {
	cfg := s.SessionConfig()
	if o.pace != "" {
		p, err := breathing.ParsePace(o.pace)
		if err != nil {
			return cfg, err
		}
		cfg = cfg.WithPace(p)
	}

	var overrides breathing.Overrides
	flags := cmd.Flags()
	if flags.Changed("rounds") {
		overrides.Rounds = &o.rounds
	}
	if flags.Changed("breaths") {
		overrides.BreathsPerRound = &o.breaths
	}
	if flags.Changed("hold") {
		overrides.HoldGoal = &o.hold
	}
	if flags.Changed("recovery") {
		overrides.RecoveryGoal = &o.recovery
	}
	if flags.Changed("inhale") {
		overrides.Inhale = &o.inhale
	}
	if flags.Changed("exhale") {
		overrides.Exhale = &o.exhale
	}
	cfg = cfg.Merge(overrides)
	return cfg, cfg.Validate()
}

func (a *app) runSession(ctx context.Context, in io.Reader, out io.Writer, cfg breathing.Config, audio bool, opts startOptions) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	runOpts := runner.Options{
		TickInterval: a.cfg.TickInterval,
		Logger:       a.logger,
	}
	if !opts.noSave {
		_, recorder, err := a.store()
		if err != nil {
			return err
		}
		runOpts.OnResult = recorder.OnResult(&opts.rating, &opts.notes)
	}

	r := runner.New(session.New(), runner.SystemClock(), runOpts)
	defer r.Close()
	cues := r.Subscribe(32)
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		printCues(out, cues, audio)
	}()
	go readCommands(ctx, in, r, a.logger)

	// printCues owns out until the runner is closed
	fmt.Fprintln(out, describeConfig(cfg))
	if err := r.Start(ctx, cfg); err != nil {
		r.Close()
		<-printed
		return err
	}

	err := r.Run(ctx)
	r.Close()
	<-printed
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if err != nil {
		return err
	}

	if res, ok := r.Result(); ok {
		fmt.Fprintln(out, describeResult(res))
	}
	return nil
}
