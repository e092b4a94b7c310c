package documents

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/inkdraft/inkdraft/pkg/errcodes"
	"github.com/inkdraft/inkdraft/pkg/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestService(t *testing.T) *Service {
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

	return NewService(db, t.TempDir())
}

func TestCreateDocument(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	data := []byte("Chapter notes: soil, light, and water schedules.")
	doc, err := svc.CreateDocument(ctx, CreateDocumentOptions{
		UserID:   1,
		Filename: "notes.txt",
		FileType: "txt",
		Data:     data,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "notes.txt", doc.Filename)
	assert.Equal(t, "txt", doc.FileType)
	assert.Equal(t, len(data)/4, doc.TokenCount)
	assert.InDelta(t, float64(len(data))/(1024*1024), doc.FileSizeMB, 0.0001)

	stored, err := os.ReadFile(doc.Filepath)
	require.NoError(t, err)
	assert.Equal(t, data, stored)
}

func TestRetrieveDocument(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc, err := svc.CreateDocument(ctx, CreateDocumentOptions{
		UserID:   1,
		Filename: "guide.md",
		FileType: "markdown",
		Data:     []byte("# Guide"),
	})
	require.NoError(t, err)

	t.Run("finds an owned document", func(t *testing.T) {
		found, err := svc.RetrieveDocument(ctx, RetrieveDocumentOptions{ID: doc.ID, UserID: 1})
		require.NoError(t, err)
		assert.Equal(t, doc.ID, found.ID)
	})

	t.Run("hides other users' documents", func(t *testing.T) {
		_, err := svc.RetrieveDocument(ctx, RetrieveDocumentOptions{ID: doc.ID, UserID: 2})
		assert.Equal(t, errcodes.NotFound("Document"), err)
	})
}

func TestListDocuments(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		_, err := svc.CreateDocument(ctx, CreateDocumentOptions{
			UserID:   1,
			Filename: name,
			FileType: "txt",
			Data:     []byte("content"),
		})
		require.NoError(t, err)
	}

	docs, err := svc.ListDocuments(ctx, ListDocumentsOptions{UserID: 1})
	require.NoError(t, err)
	assert.Len(t, docs, 3)

	t.Run("filters by ids", func(t *testing.T) {
		subset, err := svc.ListDocuments(ctx, ListDocumentsOptions{UserID: 1, IDs: []string{docs[0].ID, docs[2].ID}})
		require.NoError(t, err)
		assert.Len(t, subset, 2)
	})

	t.Run("empty for other users", func(t *testing.T) {
		other, err := svc.ListDocuments(ctx, ListDocumentsOptions{UserID: 2})
		require.NoError(t, err)
		assert.Empty(t, other)
	})
}

func TestDeleteDocument(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc, err := svc.CreateDocument(ctx, CreateDocumentOptions{
		UserID:   1,
		Filename: "temp.txt",
		FileType: "txt",
		Data:     []byte("temp"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDocument(ctx, doc))

	_, err = svc.RetrieveDocument(ctx, RetrieveDocumentOptions{ID: doc.ID, UserID: 1})
	assert.Equal(t, errcodes.NotFound("Document"), err)

	_, err = os.Stat(doc.Filepath)
	assert.True(t, os.IsNotExist(err))
}
