package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/inkdraft/inkdraft/pkg/auth"
	"github.com/inkdraft/inkdraft/pkg/binder"
	"github.com/inkdraft/inkdraft/pkg/config"
	"github.com/inkdraft/inkdraft/pkg/documents"
	"github.com/inkdraft/inkdraft/pkg/ebooks"
	"github.com/inkdraft/inkdraft/pkg/errcodes"
	"github.com/inkdraft/inkdraft/pkg/export"
	"github.com/inkdraft/inkdraft/pkg/wizard"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB, manager *wizard.Manager, exporter export.DocsExporter) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowCredentials: true,
	}))

	health.RegisterRoutes(e)

	authService := auth.RegisterRoutes(e, db, cfg.JWTSecret)
	authMiddleware := auth.NewMiddleware(authService)

	registerProtectedRoutes(e, db, cfg, manager, exporter, authMiddleware)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func registerProtectedRoutes(e *echo.Echo, db *bun.DB, cfg *config.Config, manager *wizard.Manager, exporter export.DocsExporter, authMiddleware *auth.Middleware) {
	documentsGroup := e.Group("/documents")
	documentsGroup.Use(authMiddleware.Authenticate)
	documentService := documents.RegisterRoutesWithGroup(documentsGroup, db, cfg)

	wizardGroup := e.Group("/wizard")
	wizardGroup.Use(authMiddleware.Authenticate)
	wizard.RegisterRoutesWithGroup(wizardGroup, manager, documentService)

	ebooksGroup := e.Group("/ebooks")
	ebooksGroup.Use(authMiddleware.Authenticate)
	ebooks.RegisterRoutesWithGroup(ebooksGroup, db)

	exportGroup := e.Group("/export")
	exportGroup.Use(authMiddleware.Authenticate)
	export.RegisterRoutesWithGroup(exportGroup, manager, exporter, cfg)
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
