package documents

import (
	"github.com/inkdraft/inkdraft/pkg/config"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers document routes on a pre-configured
// group. The group is expected to already require authentication.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, cfg *config.Config) *Service {
	documentService := NewService(db, cfg.UploadDir)

	h := &handler{
		documentService: documentService,
		maxSizeMB:       cfg.UploadMaxSizeMB,
	}

	g.GET("", h.list)
	g.POST("", h.upload)
	g.DELETE("/:id", h.deleteDocument)

	return documentService
}
