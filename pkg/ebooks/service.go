package ebooks

import (
	"context"

	"github.com/inkdraft/inkdraft/pkg/errcodes"
	"github.com/inkdraft/inkdraft/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Service reads the saved-session table for history listings. Listings only
// touch the flat denormalized columns, never the snapshot JSON.
type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

type ListEbooksOptions struct {
	UserID int
	Limit  *int
	Offset *int
}

func (svc *Service) ListEbooks(ctx context.Context, opts ListEbooksOptions) ([]*models.EbookSession, int, error) {
	sessions := []*models.EbookSession{}

	q := svc.db.NewSelect().
		Model(&sessions).
		ExcludeColumn("snapshot").
		Where("es.user_id = ?", opts.UserID).
		Order("es.saved_at DESC")
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return sessions, total, nil
}

// DeleteEbook removes a saved ebook from the user's history.
func (svc *Service) DeleteEbook(ctx context.Context, userID int, ebookID string) error {
	res, err := svc.db.NewDelete().
		Model((*models.EbookSession)(nil)).
		Where("user_id = ?", userID).
		Where("ebook_id = ?", ebookID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if affected == 0 {
		return errcodes.NotFound("Ebook")
	}
	return nil
}
