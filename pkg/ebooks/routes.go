package ebooks

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers history routes on a pre-configured group.
// The group is expected to already require authentication.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		ebookService: NewService(db),
	}

	g.GET("", h.list)
	g.DELETE("/:id", h.deleteEbook)
}
