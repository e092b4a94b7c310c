package documents

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/inkdraft/inkdraft/pkg/errcodes"
	"github.com/inkdraft/inkdraft/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

// Rough heuristic for LLM context sizing. Good enough for showing users how
// much of their reference material fits in a generation request.
const bytesPerToken = 4

type Service struct {
	db        *bun.DB
	uploadDir string
}

func NewService(db *bun.DB, uploadDir string) *Service {
	return &Service{db: db, uploadDir: uploadDir}
}

type CreateDocumentOptions struct {
	UserID   int
	Filename string
	FileType string
	Data     []byte
}

// CreateDocument writes the file to disk under the user's upload directory
// and records it. The stored filename is a fresh UUID so user-supplied names
// never touch the filesystem.
func (svc *Service) CreateDocument(ctx context.Context, opts CreateDocumentOptions) (*models.Document, error) {
	id := uuid.NewString()
	dir := filepath.Join(svc.uploadDir, "documents")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.WithStack(err)
	}

	path := filepath.Join(dir, id+filepath.Ext(opts.Filename))
	if err := os.WriteFile(path, opts.Data, 0o644); err != nil {
		return nil, errors.WithStack(err)
	}

	now := time.Now()
	doc := &models.Document{
		ID:         id,
		UserID:     opts.UserID,
		Filename:   opts.Filename,
		FileType:   opts.FileType,
		FileSizeMB: float64(len(opts.Data)) / (1024 * 1024),
		TokenCount: len(opts.Data) / bytesPerToken,
		Filepath:   path,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := svc.db.NewInsert().
		Model(doc).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			logger.FromContext(ctx).Warn("failed to clean up document file after insert failure", logger.Data{"path": path, "error": rmErr.Error()})
		}
		return nil, errors.WithStack(err)
	}

	return doc, nil
}

type RetrieveDocumentOptions struct {
	ID     string
	UserID int
}

func (svc *Service) RetrieveDocument(ctx context.Context, opts RetrieveDocumentOptions) (*models.Document, error) {
	doc := &models.Document{}

	err := svc.db.NewSelect().
		Model(doc).
		Where("d.id = ?", opts.ID).
		Where("d.user_id = ?", opts.UserID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errcodes.NotFound("Document")
	} else if err != nil {
		return nil, errors.WithStack(err)
	}

	return doc, nil
}

type ListDocumentsOptions struct {
	UserID int
	IDs    []string
}

func (svc *Service) ListDocuments(ctx context.Context, opts ListDocumentsOptions) ([]*models.Document, error) {
	docs := []*models.Document{}

	q := svc.db.NewSelect().
		Model(&docs).
		Where("d.user_id = ?", opts.UserID).
		Order("d.created_at DESC")
	if len(opts.IDs) > 0 {
		q = q.Where("d.id IN (?)", bun.In(opts.IDs))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	return docs, nil
}

// DocumentsByIDs resolves stored document ids back into full records,
// silently dropping ids the user doesn't own.
func (svc *Service) DocumentsByIDs(ctx context.Context, userID int, ids []string) ([]*models.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return svc.ListDocuments(ctx, ListDocumentsOptions{UserID: userID, IDs: ids})
}

func (svc *Service) DeleteDocument(ctx context.Context, doc *models.Document) error {
	_, err := svc.db.NewDelete().
		Model(doc).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	if doc.Filepath != "" {
		if err := os.Remove(doc.Filepath); err != nil && !os.IsNotExist(err) {
			logger.FromContext(ctx).Warn("failed to remove document file", logger.Data{"path": doc.Filepath, "error": err.Error()})
		}
	}

	return nil
}
