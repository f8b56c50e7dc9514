package container

import (
	"context"
	"fmt"
	"os"

	"conversor/adapters/excel"
	"conversor/adapters/postgres"
	"conversor/app"
	"conversor/internal/config"
	"conversor/internal/errors"
	"conversor/internal/lifecycle"
	"conversor/internal/logger"
	"conversor/internal/migration"
	"conversor/internal/report"
	"conversor/internal/session"
	"conversor/ports"
	"conversor/ui"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	DB *sqlx.DB

	Reader   ports.SheetReader
	Store    ports.ResultStore
	Renderer *report.Renderer
	Service  *app.ConversionService
	Tracker  *lifecycle.ActivityTracker
	Server   *ui.Server
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	return &Container{Config: cfg}, nil
}

// Init builds every component. The result store is PostgreSQL when a
// database URL is configured and in-memory otherwise.
func (c *Container) Init(ctx context.Context) error {
	if err := c.initStore(ctx); err != nil {
		return err
	}

	c.Reader = excel.NewDataReader(excel.DefaultReaderConfig())
	c.Renderer = report.NewRenderer(loadLogo(c.Config.Report.LogoPath), c.Letterhead())
	c.Service = app.NewConversionService(c.Reader, c.Store, c.Renderer, c.Config.Session.MaxConcurrency)
	c.Tracker = lifecycle.NewActivityTracker()

	server, err := ui.NewServer(c.Service, c.Tracker, ui.Options{
		UploadFolder:   c.Config.Uploads.Folder,
		MaxUploadBytes: c.Config.Uploads.MaxSizeBytes,
		GinMode:        c.Config.Server.GinMode,
		Letterhead:     c.Letterhead(),
	})
	if err != nil {
		return errors.Wrap(err, "failed to initialize server")
	}
	c.Server = server

	logger.Infof("[Container] Initialized (store=%T, max conversions=%d)", c.Store, c.Config.Session.MaxConcurrency)
	return nil
}

func (c *Container) initStore(ctx context.Context) error {
	if c.Config.Database.URL == "" {
		c.Store = session.NewMemoryStore(c.Config.Session.ResultTTL)
		return nil
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", c.Config.Database.URL)
	if err != nil {
		return errors.DatabaseError("failed to connect to database", err)
	}
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		db.Close()
		return errors.Wrap(err, "database migration failed")
	}
	c.DB = db
	c.Store = postgres.NewResultRepository(db, c.Config.Session.ResultTTL)
	return nil
}

// Letterhead returns the configured document control fields of the report.
func (c *Container) Letterhead() report.Letterhead {
	return report.Letterhead{
		Formulation: c.Config.Report.Formulation,
		Revision:    c.Config.Report.Revision,
		Status:      c.Config.Report.Status,
	}
}

func loadLogo(path string) []byte {
	if path != "" {
		logo, err := os.ReadFile(path)
		if err == nil {
			return logo
		}
		logger.Warnf("[Container] Cannot read LOGO_PATH %s, using embedded logo: %v", path, err)
	}
	logo, err := ui.Logo()
	if err != nil {
		logger.Warnf("[Container] Embedded logo missing: %v", err)
		return nil
	}
	return logo
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if _, err := lifecycle.CleanupUploads(c.Config.Uploads.Folder); err != nil {
		logger.Warnf("[Container] Upload cleanup incomplete: %v", err)
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
