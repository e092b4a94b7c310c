package sessions

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/inkdraft/inkdraft/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Service persists wizard snapshots to the ebook_sessions table. It
// implements the wizard's Store interface.
type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// SaveSession upserts one saved session row. An empty sessionID means a new
// row; otherwise the existing row is overwritten. The flat columns are
// recomputed from the snapshot on every save so history listings never read
// the JSON.
func (svc *Service) SaveSession(ctx context.Context, userID int, sessionID string, snap *models.Snapshot) (*models.EbookSession, error) {
	now := time.Now()

	session := &models.EbookSession{
		ID:                sessionID,
		UserID:            userID,
		EbookID:           snap.EbookID,
		Title:             snap.Title,
		Topic:             snap.Topic,
		Status:            snap.Status,
		CurrentStep:       snap.CurrentStep,
		TotalProgress:     snap.TotalProgress,
		TotalChapters:     snap.Outline.TotalChapters(),
		CompletedChapters: snap.Outline.CompletedChapters(),
		SkippedChapters:   snap.Outline.SkippedChapters(),
		SnapshotParsed:    snap,
		SavedAt:           &now,
		UpdatedAt:         now,
	}
	if err := session.MarshalSnapshot(); err != nil {
		return nil, err
	}

	if sessionID == "" {
		session.ID = uuid.NewString()
		session.CreatedAt = now

		_, err := svc.db.NewInsert().
			Model(session).
			Returning("*").
			Exec(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return session, nil
	}

	res, err := svc.db.NewUpdate().
		Model(session).
		Column("ebook_id", "title", "topic", "status", "current_step", "total_progress",
			"total_chapters", "completed_chapters", "skipped_chapters", "snapshot", "saved_at", "updated_at").
		WherePK().
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if affected == 0 {
		// The row is gone (cleared from another device, say); fall back to a
		// fresh insert so the save still lands.
		return svc.SaveSession(ctx, userID, "", snap)
	}

	return session, nil
}

// LoadSession returns the user's most recently saved session with its
// snapshot parsed, or nil when none exists.
func (svc *Service) LoadSession(ctx context.Context, userID int) (*models.EbookSession, error) {
	session := &models.EbookSession{}

	err := svc.db.NewSelect().
		Model(session).
		Where("es.user_id = ?", userID).
		Order("es.saved_at DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := session.UnmarshalSnapshot(); err != nil {
		return nil, err
	}

	return session, nil
}

// ClearSession deletes all saved sessions for the user's given ebook.
func (svc *Service) ClearSession(ctx context.Context, userID int, ebookID string) error {
	_, err := svc.db.NewDelete().
		Model((*models.EbookSession)(nil)).
		Where("user_id = ?", userID).
		Where("ebook_id = ?", ebookID).
		Exec(ctx)
	return errors.WithStack(err)
}
