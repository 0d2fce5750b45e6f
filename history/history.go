// Package history summarizes stored sessions for the stats screen.
package history

import (
	"slices"
	"time"

	"github.com/benjamonnguyen/breathwork-go"
)

const (
	DayLayout = "2006-01-02"
	week      = 7 * 24 * time.Hour
)

type Summary struct {
	TotalSessions      int
	BreathworkSessions int
	ColdSessions       int
	// CurrentStreak is the run of consecutive calendar days with a session,
	// counted back from the most recent one.
	CurrentStreak int
	// LastSessionDay is empty when there are no sessions.
	LastSessionDay   string
	TotalDuration    time.Duration
	LongestHold      time.Duration
	ThisWeekDuration time.Duration
}

// Summarize aggregates entries. Days are calendar days in now's location,
// keyed on the session end time.
func Summarize(entries []breathwork.ExistingSessionRecord, now time.Time) Summary {
	var s Summary
	if len(entries) == 0 {
		return s
	}

	loc := now.Location()
	weekAgo := now.Add(-week)
	seen := make(map[string]struct{}, len(entries))
	var days []time.Time

	for _, e := range entries {
		s.TotalSessions++
		switch e.Type {
		case breathwork.BreathworkSession:
			s.BreathworkSessions++
			if e.Stats != nil {
				s.LongestHold = max(s.LongestHold, e.Stats.LongestHold)
			}
		case breathwork.ColdSession:
			s.ColdSessions++
		}

		s.TotalDuration += e.Duration
		if !e.EndedAt.Before(weekAgo) {
			s.ThisWeekDuration += e.Duration
		}

		day := calendarDay(e.EndedAt.In(loc))
		key := day.Format(DayLayout)
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			days = append(days, day)
		}
	}

	slices.SortFunc(days, func(a, b time.Time) int {
		return b.Compare(a)
	})
	s.LastSessionDay = days[0].Format(DayLayout)
	s.CurrentStreak = 1
	for i := 1; i < len(days); i++ {
		if daysBetween(days[i], days[i-1]) != 1 {
			break
		}
		s.CurrentStreak++
	}

	return s
}

// calendarDay maps t to midnight UTC of its local date so day arithmetic is
// unaffected by DST shifts.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(earlier, later time.Time) int {
	return int(later.Sub(earlier) / (24 * time.Hour))
}
