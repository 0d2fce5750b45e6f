package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/benjamonnguyen/breathwork-go"
)

const maxColdDuration = 30 * time.Minute

func NewColdCommand(a *app) *cobra.Command {
	var (
		duration time.Duration
		noSave   bool
	)
	cmd := &cobra.Command{
		Use:   "cold",
		Short: "Run a cold exposure countdown",
		Long: `Run a cold exposure countdown.

Type q and press enter to stop early. The elapsed time is saved to history.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if duration <= 0 || duration > maxColdDuration {
				return fmt.Errorf("duration must be positive and at most %s, got %s", maxColdDuration, duration)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			startedAt := time.Now()
			elapsed, completed := countdown(ctx, cmd.InOrStdin(), out, duration, a.cfg.TickInterval)
			endedAt := startedAt.Add(elapsed)
			status := "stopped"
			if completed {
				status = "completed"
			}
			fmt.Fprintf(out, "cold exposure %s after %s\n", status, formatDuration(elapsed))

			if noSave {
				return nil
			}
			_, recorder, err := a.store()
			if err != nil {
				return err
			}
			_, err = recorder.Save(context.WithoutCancel(ctx), breathwork.NewColdSessionRecord(elapsed, startedAt, endedAt, completed))
			return err
		},
	}
	cmd.Flags().DurationVarP(&duration, "duration", "d", 2*time.Minute, "countdown length")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not save the session to history")
	return cmd
}

// countdown blocks until d has passed, q is read from in or ctx is done. It
// prints the remaining time once per second.
func countdown(ctx context.Context, in io.Reader, out io.Writer, d time.Duration, tick time.Duration) (time.Duration, bool) {
	quit := make(chan struct{})
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			if strings.EqualFold(strings.TrimSpace(scanner.Text()), "q") {
				close(quit)
				return
			}
		}
	}()

	start := time.Now()
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	lastShown := time.Duration(-1)
	for {
		elapsed := time.Since(start)
		if elapsed >= d {
			return d, true
		}
		if remaining := (d - elapsed).Truncate(time.Second); remaining != lastShown {
			lastShown = remaining
			fmt.Fprintf(out, "\r%s remaining ", mutedStyle.Render(formatDuration(remaining+time.Second)))
		}
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return time.Since(start), false
		case <-quit:
			fmt.Fprintln(out)
			return time.Since(start), false
		case <-ticker.C:
		}
	}
}
