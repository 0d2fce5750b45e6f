package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/benjamonnguyen/breathwork-go"
	"github.com/benjamonnguyen/breathwork-go/breathing"
)

const SelectAllSessions = "SELECT id, type, started_at, ended_at, rounds_completed, config, stats, duration_ms, completed, rating, notes, created_at, updated_at FROM sessions"

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// sessionEntity times are unix milliseconds.
type sessionEntity struct {
	ID              string
	Type            string
	StartedAt       int64
	EndedAt         int64
	RoundsCompleted int
	Config          sql.NullString
	Stats           sql.NullString
	DurationMS      int64
	Completed       bool
	Rating          sql.NullInt64
	Notes           string
	CreatedAt       int64
	UpdatedAt       int64
}

type configDocument struct {
	Rounds          int   `json:"rounds"`
	BreathsPerRound int   `json:"breaths_per_round"`
	InhaleMS        int64 `json:"inhale_ms"`
	ExhaleMS        int64 `json:"exhale_ms"`
	HoldGoalMS      int64 `json:"hold_goal_ms"`
	RecoveryGoalMS  int64 `json:"recovery_goal_ms"`
}

type statsDocument struct {
	RoundsCompleted int   `json:"rounds_completed"`
	LongestHoldMS   int64 `json:"longest_hold_ms"`
	DurationMS      int64 `json:"duration_ms"`
}

type sessionRepo struct {
	dbGetter txStdLib.DBGetter
	l        *log.Logger
}

var _ breathwork.SessionRepo = (*sessionRepo)(nil)

func NewSessionRepo(dbGetter txStdLib.DBGetter, logger *log.Logger) *sessionRepo {
	return &sessionRepo{
		dbGetter: dbGetter,
		l:        logger,
	}
}

func (r *sessionRepo) InsertSession(ctx context.Context, session breathwork.SessionRecord) (breathwork.ExistingSessionRecord, error) {
	if err := validateRecord(session); err != nil {
		return breathwork.ExistingSessionRecord{}, err
	}

	existingRecord := breathwork.ExistingSessionRecord{
		SessionRecord:  session,
		ExistingRecord: breathwork.NewExistingRecord[breathwork.SessionID](uuid.NewString(), time.Now()),
	}
	e, err := mapToSessionEntity(existingRecord)
	if err != nil {
		return breathwork.ExistingSessionRecord{}, err
	}

	args := []any{
		e.ID,
		e.Type,
		e.StartedAt,
		e.EndedAt,
		e.RoundsCompleted,
		e.Config,
		e.Stats,
		e.DurationMS,
		e.Completed,
		e.Rating,
		e.Notes,
		e.CreatedAt,
		e.UpdatedAt,
	}
	query := "INSERT INTO sessions (id, type, started_at, ended_at, rounds_completed, config, stats, duration_ms, completed, rating, notes, created_at, updated_at) VALUES " + generateParameters(len(args))
	r.l.Debug("creating session", "query", query, "args", args)
	if _, err := r.dbGetter(ctx).ExecContext(ctx, query, args...); err != nil {
		return breathwork.ExistingSessionRecord{}, err
	}

	return mapToExistingSessionRecord(e)
}

func (r *sessionRepo) UpdateSession(ctx context.Context, id breathwork.SessionID, s breathwork.SessionRecord) (breathwork.ExistingSessionRecord, error) {
	if err := validateRecord(s); err != nil {
		return breathwork.ExistingSessionRecord{}, err
	}
	existing, err := r.GetSession(ctx, id)
	if err != nil {
		return existing, err
	}

	existing.SessionRecord = s
	existing.UpdatedAt = time.Now()
	e, err := mapToSessionEntity(existing)
	if err != nil {
		return breathwork.ExistingSessionRecord{}, err
	}

	query := "UPDATE sessions SET type = ?, started_at = ?, ended_at = ?, rounds_completed = ?, config = ?, stats = ?, duration_ms = ?, completed = ?, rating = ?, notes = ?, updated_at = ? WHERE id = ?"
	args := []any{
		e.Type,
		e.StartedAt,
		e.EndedAt,
		e.RoundsCompleted,
		e.Config,
		e.Stats,
		e.DurationMS,
		e.Completed,
		e.Rating,
		e.Notes,
		e.UpdatedAt,
		e.ID,
	}
	r.l.Debug("updating session", "query", query, "args", args)
	if _, err := r.dbGetter(ctx).ExecContext(ctx, query, args...); err != nil {
		return breathwork.ExistingSessionRecord{}, err
	}

	return mapToExistingSessionRecord(e)
}

func (r *sessionRepo) DeleteSession(ctx context.Context, id breathwork.SessionID) (breathwork.ExistingSessionRecord, error) {
	existing, err := r.GetSession(ctx, id)
	if err != nil {
		return breathwork.ExistingSessionRecord{}, err
	}

	query := "DELETE FROM sessions WHERE id = ?"
	r.l.Debug("deleting session", "query", query, "id", id)
	if _, err := r.dbGetter(ctx).ExecContext(ctx, query, id); err != nil {
		return breathwork.ExistingSessionRecord{}, err
	}

	return existing, nil
}

func (r *sessionRepo) GetSession(ctx context.Context, id breathwork.SessionID) (breathwork.ExistingSessionRecord, error) {
	if id == "" {
		return breathwork.ExistingSessionRecord{}, fmt.Errorf("provide id")
	}

	row := r.dbGetter(ctx).QueryRowContext(
		ctx,
		fmt.Sprintf("%s WHERE id=?", SelectAllSessions), id,
	)

	return extractSession(row)
}

// ListSessions returns at most limit sessions, newest first. limit is clamped
// to [1, MaxListLimit]; a non-positive limit means DefaultListLimit.
func (r *sessionRepo) ListSessions(ctx context.Context, limit int) ([]breathwork.ExistingSessionRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	limit = min(limit, MaxListLimit)

	query := fmt.Sprintf("%s ORDER BY started_at DESC, created_at DESC LIMIT ?", SelectAllSessions)
	r.l.Debug("listing sessions", "query", query, "limit", limit)
	rows, err := r.dbGetter(ctx).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint

	var sessions []breathwork.ExistingSessionRecord
	for rows.Next() {
		session, err := extractSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func validateRecord(s breathwork.SessionRecord) error {
	switch s.Type {
	case breathwork.BreathworkSession, breathwork.ColdSession:
	default:
		return fmt.Errorf("invalid session type %q", s.Type)
	}
	if s.StartedAt.IsZero() {
		return fmt.Errorf("provide required field 'StartedAt'")
	}
	return nil
}

func extractSession(s scannable) (breathwork.ExistingSessionRecord, error) {
	var e sessionEntity
	if err := s.Scan(&e.ID, &e.Type, &e.StartedAt, &e.EndedAt, &e.RoundsCompleted, &e.Config, &e.Stats, &e.DurationMS, &e.Completed, &e.Rating, &e.Notes, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return breathwork.ExistingSessionRecord{}, ErrNotFound
		}
		return breathwork.ExistingSessionRecord{}, err
	}

	return mapToExistingSessionRecord(e)
}

func mapToSessionEntity(session breathwork.ExistingSessionRecord) (sessionEntity, error) {
	e := sessionEntity{
		ID:              string(session.ID),
		Type:            string(session.Type),
		StartedAt:       session.StartedAt.UnixMilli(),
		EndedAt:         session.EndedAt.UnixMilli(),
		RoundsCompleted: session.RoundsCompleted,
		DurationMS:      session.Duration.Milliseconds(),
		Completed:       session.Completed,
		Notes:           session.Notes,
		CreatedAt:       session.CreatedAt.UnixMilli(),
		UpdatedAt:       session.UpdatedAt.UnixMilli(),
	}
	if session.Rating != 0 {
		e.Rating = sql.NullInt64{Int64: int64(session.Rating), Valid: true}
	}

	if c := session.Config; c != nil {
		b, err := json.Marshal(configDocument{
			Rounds:          c.Rounds,
			BreathsPerRound: c.BreathsPerRound,
			InhaleMS:        c.Inhale.Milliseconds(),
			ExhaleMS:        c.Exhale.Milliseconds(),
			HoldGoalMS:      c.HoldGoal.Milliseconds(),
			RecoveryGoalMS:  c.RecoveryGoal.Milliseconds(),
		})
		if err != nil {
			return sessionEntity{}, fmt.Errorf("encode config: %w", err)
		}
		e.Config = sql.NullString{String: string(b), Valid: true}
	}

	if st := session.Stats; st != nil {
		b, err := json.Marshal(statsDocument{
			RoundsCompleted: st.RoundsCompleted,
			LongestHoldMS:   st.LongestHold.Milliseconds(),
			DurationMS:      st.Duration.Milliseconds(),
		})
		if err != nil {
			return sessionEntity{}, fmt.Errorf("encode stats: %w", err)
		}
		e.Stats = sql.NullString{String: string(b), Valid: true}
	}

	return e, nil
}

func mapToExistingSessionRecord(e sessionEntity) (breathwork.ExistingSessionRecord, error) {
	rec := breathwork.ExistingSessionRecord{
		ExistingRecord: breathwork.ExistingRecord[breathwork.SessionID]{
			ID:        breathwork.SessionID(e.ID),
			CreatedAt: time.UnixMilli(e.CreatedAt),
			UpdatedAt: time.UnixMilli(e.UpdatedAt),
		},
		SessionRecord: breathwork.SessionRecord{
			Type:            breathwork.SessionType(e.Type),
			StartedAt:       time.UnixMilli(e.StartedAt),
			EndedAt:         time.UnixMilli(e.EndedAt),
			RoundsCompleted: e.RoundsCompleted,
			Duration:        time.Duration(e.DurationMS) * time.Millisecond,
			Completed:       e.Completed,
			Notes:           e.Notes,
		},
	}
	if e.Rating.Valid {
		rec.Rating = int(e.Rating.Int64)
	}

	if e.Config.Valid {
		var doc configDocument
		if err := json.Unmarshal([]byte(e.Config.String), &doc); err != nil {
			return breathwork.ExistingSessionRecord{}, fmt.Errorf("decode config of session %s: %w", e.ID, err)
		}
		rec.Config = &breathing.Config{
			Rounds:          doc.Rounds,
			BreathsPerRound: doc.BreathsPerRound,
			Inhale:          time.Duration(doc.InhaleMS) * time.Millisecond,
			Exhale:          time.Duration(doc.ExhaleMS) * time.Millisecond,
			HoldGoal:        time.Duration(doc.HoldGoalMS) * time.Millisecond,
			RecoveryGoal:    time.Duration(doc.RecoveryGoalMS) * time.Millisecond,
		}
	}

	if e.Stats.Valid {
		var doc statsDocument
		if err := json.Unmarshal([]byte(e.Stats.String), &doc); err != nil {
			return breathwork.ExistingSessionRecord{}, fmt.Errorf("decode stats of session %s: %w", e.ID, err)
		}
		rec.Stats = &breathing.Stats{
			RoundsCompleted: doc.RoundsCompleted,
			LongestHold:     time.Duration(doc.LongestHoldMS) * time.Millisecond,
			Duration:        time.Duration(doc.DurationMS) * time.Millisecond,
		}
	}

	return rec, nil
}
