package ebooks

import (
	"net/http"

	"github.com/inkdraft/inkdraft/pkg/auth"
	"github.com/inkdraft/inkdraft/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	ebookService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()
	user := auth.UserFromContext(c)
	if user == nil {
		return errcodes.Unauthorized("Authentication required")
	}

	params := ListEbooksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	sessions, total, err := h.ebookService.ListEbooks(ctx, ListEbooksOptions{
		UserID: user.ID,
		Limit:  &params.Limit,
		Offset: &params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]any{
		"ebooks": sessions,
		"total":  total,
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) deleteEbook(c echo.Context) error {
	ctx := c.Request().Context()
	user := auth.UserFromContext(c)
	if user == nil {
		return errcodes.Unauthorized("Authentication required")
	}

	if err := h.ebookService.DeleteEbook(ctx, user.ID, c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
