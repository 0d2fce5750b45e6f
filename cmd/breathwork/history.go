package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/benjamonnguyen/breathwork-go"
	"github.com/benjamonnguyen/breathwork-go/history"
	"github.com/benjamonnguyen/breathwork-go/sqlite"
)

func NewHistoryCommand(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, _, err := a.store()
			if err != nil {
				return err
			}
			sessions, err := repo.ListSessions(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}
			if len(sessions) == 0 {
				cmd.Println("no sessions yet")
				return nil
			}

			now := time.Now()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tTYPE\tDURATION\tROUNDS\tLONGEST HOLD\tRATING\tNOTES")
			for _, s := range sessions {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					formatWhen(s.StartedAt, now),
					s.Type,
					formatDuration(s.Duration),
					rounds(s),
					longestHold(s),
					stars(s.Rating),
					s.Notes,
				)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", sqlite.DefaultListLimit, fmt.Sprintf("number of sessions to show (max %d)", sqlite.MaxListLimit))
	return cmd
}

func NewStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize your practice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, _, err := a.store()
			if err != nil {
				return err
			}
			sessions, err := repo.ListSessions(cmd.Context(), sqlite.MaxListLimit)
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}

			s := history.Summarize(sessions, time.Now())
			lastDay := s.LastSessionDay
			if lastDay == "" {
				lastDay = "-"
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "sessions\t%d (%d breathwork, %d cold)\n", s.TotalSessions, s.BreathworkSessions, s.ColdSessions)
			fmt.Fprintf(w, "current streak\t%d days\n", s.CurrentStreak)
			fmt.Fprintf(w, "last session\t%s\n", lastDay)
			fmt.Fprintf(w, "total time\t%s\n", formatDuration(s.TotalDuration))
			fmt.Fprintf(w, "this week\t%s\n", formatDuration(s.ThisWeekDuration))
			fmt.Fprintf(w, "longest hold\t%s\n", formatDuration(s.LongestHold))
			return w.Flush()
		},
	}
}

func rounds(s breathwork.ExistingSessionRecord) string {
	if s.Type != breathwork.BreathworkSession {
		return "-"
	}
	if s.Config == nil {
		return fmt.Sprint(s.RoundsCompleted)
	}
	return fmt.Sprintf("%d/%d", s.RoundsCompleted, s.Config.Rounds)
}

func longestHold(s breathwork.ExistingSessionRecord) string {
	if s.Stats == nil {
		return "-"
	}
	return formatDuration(s.Stats.LongestHold)
}

func stars(rating int) string {
	if rating == 0 {
		return "-"
	}
	return strings.Repeat("*", rating)
}
