package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/benjamonnguyen/breathwork-go/breathing"
	"github.com/benjamonnguyen/breathwork-go/cue"
	"github.com/benjamonnguyen/breathwork-go/runner"
	"github.com/benjamonnguyen/breathwork-go/session"
)

const bell = "\a"

var (
	phaseStyles = map[breathing.PhaseKind]lipgloss.Style{
		breathing.Inhale:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		breathing.Exhale:   lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		breathing.Hold:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		breathing.Recovery: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("114")),
	}
	goalStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	doneStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func printCues(out io.Writer, cues <-chan cue.Cue, audio bool) {
	for c := range cues {
		line := formatCue(c)
		if line == "" {
			continue
		}
		if audio && (c.Kind != cue.PhaseStarted || c.Phase.Kind().IsHold()) {
			line = bell + line
		}
		fmt.Fprintln(out, line)
	}
}

func formatCue(c cue.Cue) string {
	switch c.Kind {
	case cue.PhaseStarted:
		kind := c.Phase.Kind()
		style := phaseStyles[kind]
		if breath, ok := c.Phase.Breath(); ok {
			// one line per breath
			if kind != breathing.Inhale {
				return ""
			}
			return fmt.Sprintf("round %d  %s %d", c.Round, style.Render("breathe"), breath)
		}
		goal, _ := c.Phase.HoldGoal()
		return fmt.Sprintf("round %d  %s %s", c.Round, style.Render(strings.ToLower(kind.String())), mutedStyle.Render("goal "+goal.String()))
	case cue.GoalReached:
		return goalStyle.Render("goal reached")
	case cue.SessionCompleted:
		return doneStyle.Render("session complete")
	}
	return ""
}

// readCommands applies p/n/q lines from in until ctx is done or in closes.
func readCommands(ctx context.Context, in io.Reader, r *runner.Runner, l *log.Logger) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		var err error
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "p":
			err = r.TogglePause(ctx)
			if err == nil && r.View().Status == session.Paused {
				l.Info("paused, p to resume")
			}
		case "n":
			err = r.AdvanceFromHold(ctx)
		case "q":
			err = r.Stop(ctx)
		case "":
			continue
		default:
			l.Warn("unknown command, use p, n or q", "input", scanner.Text())
			continue
		}
		if errors.Is(err, session.ErrInvalidTransition) {
			l.Warn(err.Error())
		} else if err != nil {
			l.Error("command failed", "err", err)
		}
	}
}

func describeConfig(cfg breathing.Config) string {
	tl, err := breathing.Build(cfg)
	if err != nil {
		return ""
	}
	return mutedStyle.Render(fmt.Sprintf(
		"%d rounds of %d breaths (%s in, %s out), hold %s, recovery %s, about %s",
		cfg.Rounds, cfg.BreathsPerRound, cfg.Inhale, cfg.Exhale, cfg.HoldGoal, cfg.RecoveryGoal, formatDuration(tl.Total()),
	))
}

func describeResult(res session.Result) string {
	status := "stopped early"
	if res.Completed {
		status = "completed"
	}
	return fmt.Sprintf("%s: %d rounds, longest hold %s, %s",
		status, res.Stats.RoundsCompleted, formatDuration(res.Stats.LongestHold), formatDuration(res.Stats.Duration))
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return d.String()
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}

func formatWhen(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}
