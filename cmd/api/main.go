package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/inkdraft/inkdraft/pkg/config"
	"github.com/inkdraft/inkdraft/pkg/database"
	"github.com/inkdraft/inkdraft/pkg/documents"
	"github.com/inkdraft/inkdraft/pkg/export"
	"github.com/inkdraft/inkdraft/pkg/generation"
	"github.com/inkdraft/inkdraft/pkg/migrations"
	"github.com/inkdraft/inkdraft/pkg/server"
	"github.com/inkdraft/inkdraft/pkg/sessions"
	"github.com/inkdraft/inkdraft/pkg/version"
	"github.com/inkdraft/inkdraft/pkg/wizard"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
)

func main() {
	ctx := context.Background()
	log := logger.New()

	log.Info("starting inkdraft", logger.Data{"version": version.Version})

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	if err := initUploadDir(cfg.UploadDir); err != nil {
		log.Err(err).Fatal("upload directory error")
	}
	log.Info("upload directory initialized", logger.Data{"path": cfg.UploadDir})

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}

	group, err := migrations.BringUpToDate(ctx, db)
	if err != nil {
		log.Err(err).Fatal("migrations error")
	}
	if group.ID == 0 {
		log.Info("no new migrations to run")
	} else {
		log.Info("migrated to new group", logger.Data{"group_id": group.ID, "migration_names": group.Migrations.String()})
	}

	genClient := generation.NewClient(cfg)
	sessionStore := sessions.NewService(db)
	documentService := documents.NewService(db, cfg.UploadDir)

	manager := wizard.NewManager(wizard.Collaborators{
		Titles:    genClient,
		Outlines:  genClient,
		Content:   genClient,
		Covers:    genClient,
		Store:     sessionStore,
		Documents: documentService,
	}, cfg.CoverCreditCost, time.Duration(cfg.AutosaveIntervalSeconds)*time.Second)

	srv, err := server.New(cfg, db, manager, export.NewGoogleClient(cfg))
	if err != nil {
		log.Err(err).Fatal("server error")
	}

	graceful := signals.Setup()

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort)
		lc := net.ListenConfig{}
		listener, err := lc.Listen(ctx, "tcp", addr)
		if err != nil {
			log.Err(err).Fatal("failed to bind port")
		}

		actualPort := listener.Addr().(*net.TCPAddr).Port
		log.Info("server started", logger.Data{"port": actualPort})

		err = srv.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Err(err).Fatal("server stopped")
		}
		log.Info("server stopped")
	}()

	manager.Start()
	log.Info("autosave started")

	<-graceful
	log.Info("starting graceful shutdown")

	err = srv.Shutdown(ctx)
	if err != nil {
		log.Err(err).Error("server shutdown error")
	}
	log.Info("server shutdown")

	manager.Shutdown()
	log.Info("autosave shutdown")

	err = db.Close()
	if err != nil {
		log.Err(err).Error("database close error")
	}
	log.Info("database closed")
}

// initUploadDir creates the upload directory tree and verifies write
// permissions. Uploaded reference documents live under documents/.
func initUploadDir(dir string) error {
	if err := os.MkdirAll(filepath.Join(dir, "documents"), 0755); err != nil {
		return errors.Wrapf(err, "failed to create upload directory: %s", dir)
	}

	testFile := filepath.Join(dir, ".write_test")
	f, err := os.Create(testFile)
	if err != nil {
		return errors.Wrapf(err, "upload directory is not writable: %s", dir)
	}
	f.Close()

	if err := os.Remove(testFile); err != nil {
		return errors.Wrapf(err, "failed to clean up write test file: %s", testFile)
	}

	return nil
}
