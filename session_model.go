package breathwork

import (
	"context"
	"time"

	"github.com/benjamonnguyen/breathwork-go/breathing"
	"github.com/benjamonnguyen/breathwork-go/session"
)

type SessionType string

const (
	BreathworkSession SessionType = "breathwork"
	ColdSession       SessionType = "cold"
)

type SessionID string

// SessionRecord is a finished session as kept in history. Config and Stats are
// only set for breathwork sessions.
type SessionRecord struct {
	Type      SessionType
	StartedAt time.Time
	EndedAt   time.Time

	//
	RoundsCompleted int
	Config          *breathing.Config
	Stats           *breathing.Stats
	Duration        time.Duration
	Completed       bool

	//
	Rating int // 1-5, 0 when unrated
	Notes  string
}

type ExistingSessionRecord struct {
	ExistingRecord[SessionID]
	SessionRecord
}

const (
	MinRating = 1
	MaxRating = 5
)

func NewBreathSessionRecord(res session.Result, rating int, notes string) SessionRecord {
	cfg := res.Config
	stats := res.Stats
	return SessionRecord{
		Type:            BreathworkSession,
		StartedAt:       res.StartedAt,
		EndedAt:         res.EndedAt,
		RoundsCompleted: stats.RoundsCompleted,
		Config:          &cfg,
		Stats:           &stats,
		Duration:        max(stats.Duration.Round(time.Second), 0),
		Completed:       res.Completed,
		Rating:          normalizeRating(rating),
		Notes:           notes,
	}
}

func NewColdSessionRecord(duration time.Duration, startedAt, endedAt time.Time, completed bool) SessionRecord {
	return SessionRecord{
		Type:      ColdSession,
		StartedAt: startedAt,
		EndedAt:   endedAt,
		Duration:  max(duration.Round(time.Second), 0),
		Completed: completed,
	}
}

func normalizeRating(rating int) int {
	if rating < MinRating || rating > MaxRating {
		return 0
	}
	return rating
}

type SessionRepo interface {
	InsertSession(context.Context, SessionRecord) (ExistingSessionRecord, error)
	UpdateSession(ctx context.Context, id SessionID, s SessionRecord) (ExistingSessionRecord, error)
	DeleteSession(ctx context.Context, id SessionID) (ExistingSessionRecord, error)
	GetSession(ctx context.Context, id SessionID) (ExistingSessionRecord, error)
	// ListSessions returns the most recently started sessions first.
	ListSessions(ctx context.Context, limit int) ([]ExistingSessionRecord, error)
}
