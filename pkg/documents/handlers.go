package documents

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/inkdraft/inkdraft/pkg/auth"
	"github.com/inkdraft/inkdraft/pkg/errcodes"
	"github.com/inkdraft/inkdraft/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Extensions we accept, each with the detected mime types that are allowed
// for it. The declared Content-Type header is ignored; only sniffed bytes
// count.
var allowedUploads = map[string]struct {
	fileType  string
	mimeTypes map[string]bool
}{
	".pdf": {models.DocumentTypePDF, map[string]bool{"application/pdf": true}},
	".docx": {models.DocumentTypeDOCX, map[string]bool{
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
		"application/zip": true,
	}},
	".txt": {models.DocumentTypeText, map[string]bool{"text/plain": true, "text/plain; charset=utf-8": true}},
	".md":  {models.DocumentTypeMarkdown, map[string]bool{"text/plain": true, "text/plain; charset=utf-8": true, "text/markdown": true}},
}

type handler struct {
	documentService *Service
	maxSizeMB       int
}

func (h *handler) upload(c echo.Context) error {
	ctx := c.Request().Context()
	user := auth.UserFromContext(c)
	if user == nil {
		return errcodes.Unauthorized("Authentication required")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return errcodes.ValidationError("A file is required")
	}

	maxBytes := int64(h.maxSizeMB) * 1024 * 1024
	if fileHeader.Size > maxBytes {
		return errcodes.PayloadTooLarge(fmt.Sprintf("%dMB", h.maxSizeMB))
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	allowed, ok := allowedUploads[ext]
	if !ok {
		return errcodes.UnsupportedMediaType()
	}

	f, err := fileHeader.Open()
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return errors.WithStack(err)
	}
	if int64(len(data)) > maxBytes {
		return errcodes.PayloadTooLarge(fmt.Sprintf("%dMB", h.maxSizeMB))
	}

	mtype := mimetype.Detect(data)
	if !allowed.mimeTypes[mtype.String()] {
		return errcodes.UnsupportedMediaType()
	}

	doc, err := h.documentService.CreateDocument(ctx, CreateDocumentOptions{
		UserID:   user.ID,
		Filename: fileHeader.Filename,
		FileType: allowed.fileType,
		Data:     data,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, doc))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()
	user := auth.UserFromContext(c)
	if user == nil {
		return errcodes.Unauthorized("Authentication required")
	}

	docs, err := h.documentService.ListDocuments(ctx, ListDocumentsOptions{UserID: user.ID})
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]any{
		"documents": docs,
		"total":     len(docs),
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) deleteDocument(c echo.Context) error {
	ctx := c.Request().Context()
	user := auth.UserFromContext(c)
	if user == nil {
		return errcodes.Unauthorized("Authentication required")
	}

	doc, err := h.documentService.RetrieveDocument(ctx, RetrieveDocumentOptions{
		ID:     c.Param("id"),
		UserID: user.ID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.documentService.DeleteDocument(ctx, doc); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
