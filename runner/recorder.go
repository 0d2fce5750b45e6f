package runner

import (
	"context"
	"fmt"

	"github.com/Thiht/transactor"
	"github.com/charmbracelet/log"

	"github.com/benjamonnguyen/breathwork-go"
	"github.com/benjamonnguyen/breathwork-go/session"
)

// Recorder persists finished sessions.
type Recorder struct {
	repo breathwork.SessionRepo
	tx   transactor.Transactor
	l    *log.Logger
}

func NewRecorder(repo breathwork.SessionRepo, tx transactor.Transactor, logger *log.Logger) *Recorder {
	return &Recorder{
		repo: repo,
		tx:   tx,
		l:    logger,
	}
}

func (r *Recorder) Save(ctx context.Context, rec breathwork.SessionRecord) (breathwork.ExistingSessionRecord, error) {
	var inserted breathwork.ExistingSessionRecord
	err := r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		inserted, err = r.repo.InsertSession(ctx, rec)
		if err != nil {
			return fmt.Errorf("failed to insert session: %w", err)
		}
		return nil
	})
	if err != nil {
		return breathwork.ExistingSessionRecord{}, err
	}

	r.l.Info("saved session", "id", inserted.ID, "type", inserted.Type, "duration", inserted.Duration)
	return inserted, nil
}

// OnResult adapts Save to Options.OnResult. rating and notes are read when the
// session ends, so callers may fill them in while it runs.
func (r *Recorder) OnResult(rating *int, notes *string) func(context.Context, session.Result) error {
	return func(ctx context.Context, res session.Result) error {
		var rt int
		var n string
		if rating != nil {
			rt = *rating
		}
		if notes != nil {
			n = *notes
		}
		_, err := r.Save(ctx, breathwork.NewBreathSessionRecord(res, rt, n))
		return err
	}
}
