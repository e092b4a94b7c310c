package documents

import (
	"bytes"
	"context"
	"database/sql"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/inkdraft/inkdraft/pkg/auth"
	"github.com/inkdraft/inkdraft/pkg/config"
	"github.com/inkdraft/inkdraft/pkg/errcodes"
	"github.com/inkdraft/inkdraft/pkg/migrations"
	"github.com/inkdraft/inkdraft/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
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

	return db
}

func newUploadContext(t *testing.T, filename string, content []byte) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/documents", body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rr := httptest.NewRecorder()
	c := e.NewContext(req, rr)
	c.Set(auth.ContextKeyUser, &models.User{ID: 1, Username: "ada"})
	return c, rr
}

func TestHandlerUpload(t *testing.T) {
	cfg := config.NewForTest()
	cfg.UploadMaxSizeMB = 1
	h := &handler{
		documentService: NewService(newTestDB(t), t.TempDir()),
		maxSizeMB:       cfg.UploadMaxSizeMB,
	}

	t.Run("accepts a text file", func(tt *testing.T) {
		c, rr := newUploadContext(tt, "notes.txt", []byte("soil, light, and water schedules"))
		require.NoError(tt, h.upload(c))
		assert.Equal(tt, http.StatusCreated, rr.Code)
		assert.Contains(tt, rr.Body.String(), "notes.txt")
	})

	t.Run("rejects files over the configured limit", func(tt *testing.T) {
		c, _ := newUploadContext(tt, "big.txt", bytes.Repeat([]byte("a"), 1024*1024+1))
		err := h.upload(c)
		assert.Equal(tt, errcodes.PayloadTooLarge("1MB"), err)
	})

	t.Run("rejects unsupported extensions", func(tt *testing.T) {
		c, _ := newUploadContext(tt, "notes.exe", []byte("soil"))
		err := h.upload(c)
		assert.Equal(tt, errcodes.UnsupportedMediaType(), err)
	})

	t.Run("rejects content that does not match the extension", func(tt *testing.T) {
		c, _ := newUploadContext(tt, "paper.pdf", []byte("just plain text, not a pdf"))
		err := h.upload(c)
		assert.Equal(tt, errcodes.UnsupportedMediaType(), err)
	})

	t.Run("requires an authenticated user", func(tt *testing.T) {
		c, _ := newUploadContext(tt, "notes.txt", []byte("soil"))
		c.Set(auth.ContextKeyUser, nil)
		err := h.upload(c)
		assert.Equal(tt, errcodes.Unauthorized("Authentication required"), err)
	})
}

func TestRegisterRoutesWithGroup(t *testing.T) {
	cfg := config.NewForTest()
	cfg.UploadDir = t.TempDir()

	e := echo.New()
	e.HTTPErrorHandler = errcodes.NewHandler().Handle
	svc := RegisterRoutesWithGroup(e.Group("/documents"), newTestDB(t), cfg)
	require.NotNil(t, svc)

	// No user in context, so the handler itself rejects the request.
	req := httptest.NewRequest(http.MethodGet, "/documents", nil)
	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
