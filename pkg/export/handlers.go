package export

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/inkdraft/inkdraft/pkg/auth"
	"github.com/inkdraft/inkdraft/pkg/errcodes"
	"github.com/inkdraft/inkdraft/pkg/wizard"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	manager      *wizard.Manager
	exporter     DocsExporter
	pollInterval time.Duration
	waitTimeout  time.Duration
}

func (h *handler) session(c echo.Context) (*wizard.Session, int, error) {
	user := auth.UserFromContext(c)
	if user == nil {
		return nil, 0, errcodes.Unauthorized("Authentication required")
	}
	return h.manager.Session(user.ID), user.ID, nil
}

func (h *handler) downloadEPUB(c echo.Context) error {
	sess, _, err := h.session(c)
	if err != nil {
		return err
	}

	view := sess.View()
	if view.Ebook.Title == "" {
		return errcodes.ValidationError("Choose a title before exporting.")
	}

	buf := &bytes.Buffer{}
	if err := WriteEPUB(buf, view.Ebook); err != nil {
		return errcodes.ValidationError("Write at least one chapter before exporting.")
	}

	sess.MarkExported()

	filename := sanitizeFilename(view.Ebook.Title) + ".epub"
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return errors.WithStack(c.Blob(http.StatusOK, "application/epub+zip", buf.Bytes()))
}

func (h *handler) exportGoogleDocs(c echo.Context) error {
	ctx := c.Request().Context()
	sess, userID, err := h.session(c)
	if err != nil {
		return err
	}

	view := sess.View()
	if view.Ebook.Title == "" {
		return errcodes.ValidationError("Choose a title before exporting.")
	}

	result, err := h.exporter.Export(ctx, userID, view.Ebook)
	if err != nil {
		return errors.WithStack(err)
	}

	sess.MarkExported()

	return errors.WithStack(c.JSON(http.StatusOK, result))
}

func (h *handler) googleStatus(c echo.Context) error {
	ctx := c.Request().Context()
	_, userID, err := h.session(c)
	if err != nil {
		return err
	}

	connected, err := h.exporter.CheckConnection(ctx, userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{"has_connection": connected}))
}

func (h *handler) googleConnect(c echo.Context) error {
	ctx := c.Request().Context()
	_, userID, err := h.session(c)
	if err != nil {
		return err
	}

	authURL, err := h.exporter.InitiateOAuth(ctx, userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{"auth_url": authURL}))
}

// googleWait blocks until the OAuth connection shows up or the window
// expires, so the frontend can issue one request instead of polling.
func (h *handler) googleWait(c echo.Context) error {
	ctx := c.Request().Context()
	_, userID, err := h.session(c)
	if err != nil {
		return err
	}

	connected, err := WaitForConnection(ctx, h.exporter, userID, h.pollInterval, h.waitTimeout)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{"connected": connected}))
}

func sanitizeFilename(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return "ebook"
	}
	return cleaned
}
