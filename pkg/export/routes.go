package export

import (
	"github.com/inkdraft/inkdraft/pkg/config"
	"github.com/inkdraft/inkdraft/pkg/wizard"
	"github.com/labstack/echo/v4"
)

// RegisterRoutesWithGroup registers export routes on a pre-configured group.
// The group is expected to already require authentication.
func RegisterRoutesWithGroup(g *echo.Group, manager *wizard.Manager, exporter DocsExporter, cfg *config.Config) {
	h := &handler{
		manager:      manager,
		exporter:     exporter,
		pollInterval: cfg.GooglePollInterval,
		waitTimeout:  cfg.GoogleConnectTimeout,
	}

	g.GET("/epub", h.downloadEPUB)
	g.POST("/google-docs", h.exportGoogleDocs)
	g.GET("/google/status", h.googleStatus)
	g.POST("/google/connect", h.googleConnect)
	g.POST("/google/wait", h.googleWait)
}
