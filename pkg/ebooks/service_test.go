package ebooks

import (
	"context"
	"database/sql"
	"testing"

	"github.com/inkdraft/inkdraft/pkg/errcodes"
	"github.com/inkdraft/inkdraft/pkg/migrations"
	"github.com/inkdraft/inkdraft/pkg/models"
	"github.com/inkdraft/inkdraft/pkg/sessions"
	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestServices(t *testing.T) (*Service, *sessions.Service) {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		_ = db.Close()
	})

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO users (username, password_hash) VALUES ('ada', 'x')`)
	require.NoError(t, err)

	return NewService(db), sessions.NewService(db)
}

func saveEbook(t *testing.T, svc *sessions.Service, userID int, ebookID, title string) {
	t.Helper()
	_, err := svc.SaveSession(context.Background(), userID, "", &models.Snapshot{
		EbookID:       ebookID,
		Topic:         "Gardening",
		Title:         title,
		Status:        models.EbookStatusDraft,
		CurrentStep:   models.StepContent,
		TotalProgress: 50,
	})
	require.NoError(t, err)
}

func TestListEbooks(t *testing.T) {
	svc, sessionService := newTestServices(t)
	ctx := context.Background()

	saveEbook(t, sessionService, 1, "ebook-1", "First Book")
	saveEbook(t, sessionService, 1, "ebook-2", "Second Book")

	ebooks, total, err := svc.ListEbooks(ctx, ListEbooksOptions{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, ebooks, 2)
	assert.Empty(t, ebooks[0].Snapshot)

	t.Run("respects limit and offset", func(t *testing.T) {
		page, total, err := svc.ListEbooks(ctx, ListEbooksOptions{
			UserID: 1,
			Limit:  pointerutil.Int(1),
			Offset: pointerutil.Int(1),
		})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, page, 1)
	})

	t.Run("empty for other users", func(t *testing.T) {
		ebooks, total, err := svc.ListEbooks(ctx, ListEbooksOptions{UserID: 2})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, ebooks)
	})
}

func TestDeleteEbook(t *testing.T) {
	svc, sessionService := newTestServices(t)
	ctx := context.Background()

	saveEbook(t, sessionService, 1, "ebook-1", "First Book")

	t.Run("other users can't delete it", func(t *testing.T) {
		err := svc.DeleteEbook(ctx, 2, "ebook-1")
		assert.Equal(t, errcodes.NotFound("Ebook"), err)
	})

	t.Run("owner can", func(t *testing.T) {
		require.NoError(t, svc.DeleteEbook(ctx, 1, "ebook-1"))

		_, total, err := svc.ListEbooks(ctx, ListEbooksOptions{UserID: 1})
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("unknown ebook", func(t *testing.T) {
		assert.Equal(t, errcodes.NotFound("Ebook"), svc.DeleteEbook(ctx, 1, "nope"))
	})
}
