package wizard

import (
	"context"

	"github.com/inkdraft/inkdraft/pkg/models"
)

// Store persists wizard session snapshots keyed by user. Implementations
// decide insert-vs-update from the session id; an empty id means a new
// session.
type Store interface {
	SaveSession(ctx context.Context, userID int, sessionID string, snap *models.Snapshot) (*models.EbookSession, error)
	LoadSession(ctx context.Context, userID int) (*models.EbookSession, error)
	ClearSession(ctx context.Context, userID int, ebookID string) error
}
