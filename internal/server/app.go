// Package server wires the SecureVault core together: configuration,
// logging, the database and its migrations, the file store backend, the
// services and the gRPC and metrics endpoints.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/securevault/internal/cryptox"
	"github.com/dmitrijs2005/securevault/internal/dbx"
	"github.com/dmitrijs2005/securevault/internal/logging"
	"github.com/dmitrijs2005/securevault/internal/server/config"
	"github.com/dmitrijs2005/securevault/internal/server/export"
	"github.com/dmitrijs2005/securevault/internal/server/filestore"
	"github.com/dmitrijs2005/securevault/internal/server/metrics"
	"github.com/dmitrijs2005/securevault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/securevault/internal/server/services"
	"github.com/dmitrijs2005/securevault/internal/server/session"

	gs "github.com/dmitrijs2005/securevault/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	metrics  *metrics.Metrics
	backend  filestore.Backend
	activity *services.ActivityService
	creds    *services.CredentialService
	files    *services.FileService
	sessions *session.Manager
	exporter *export.Exporter
}

// NewApp opens the database, applies migrations and builds the services.
// Logs go to w.
func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger := logging.New(c.LogLevel, c.LogFormat, w)

	dialect, err := dbx.ParseDialect(c.DatabaseDriver)
	if err != nil {
		return nil, err
	}

	db, err := dbx.Open(dialect, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewRepositoryManager(dialect)
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	backend, err := newBackend(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("file store: %w", err)
	}

	hasher, err := cryptox.NewPasswordHasher(c.PasswordHasher)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	renderer, err := export.RendererByName(c.DocumentRenderer)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	mtr := metrics.New()
	act := services.NewActivityService(db, rm, logger, mtr)
	creds := services.NewCredentialService(db, rm, hasher, act, logger)
	sessions := session.NewManager(c.AdminUserID, []byte(c.SecretKey), c.SessionValidityDuration, creds, act, logger)

	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		metrics:  mtr,
		backend:  backend,
		activity: act,
		creds:    creds,
		files:    services.NewFileService(backend, act, logger),
		sessions: sessions,
		exporter: export.NewExporter(act, sessions, renderer, logger, mtr),
	}, nil
}

func newBackend(ctx context.Context, c *config.Config) (filestore.Backend, error) {
	switch strings.ToLower(c.StorageBackend) {
	case config.StorageS3:
		return filestore.NewS3Backend(ctx, filestore.S3Config{
			Region:       c.S3Region,
			User:         c.S3RootUser,
			Password:     c.S3RootPassword,
			BaseEndpoint: c.S3BaseEndpoint,
			Bucket:       c.S3Bucket,
			Prefix:       c.S3Prefix,
		})
	default:
		return filestore.NewLocalBackend(c.UploadDir)
	}
}

func (app *App) DB() *sql.DB                              { return app.db }
func (app *App) Credentials() *services.CredentialService { return app.creds }
func (app *App) ExportDir() string                        { return app.config.ExportDir }
func (app *App) Exporter() *export.Exporter               { return app.exporter }

// AdminSession is a logged in session for the configured administrator,
// used by offline tools.
func (app *App) AdminSession() session.Session {
	return app.sessions.Login(app.sessions.Begin(), app.config.AdminUserID)
}

func (app *App) Close() error {
	return app.db.Close()
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.metrics, gs.Services{
		Credentials: app.creds,
		Files:       app.files,
		Activity:    app.activity,
		Exporter:    app.exporter,
		Sessions:    app.sessions,
	})

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) {
	app.logger.Info(ctx, "Starting metrics server", "address", app.config.MetricsAddr)
	if err := app.metrics.Serve(ctx, app.config.MetricsAddr); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a termination signal arrives or ctx is cancelled.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageBackend, "db", app.config.DatabaseDriver)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.config.MetricsAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startMetricsServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if err := app.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
}
