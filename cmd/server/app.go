package main

import (
	"context"
	"database/sql"
	"fmt"

	"resume-builder/internal/adapter/repository"
	"resume-builder/internal/config"
	"resume-builder/internal/export"
	"resume-builder/internal/infrastructure/migration"
	"resume-builder/internal/render"
	"resume-builder/internal/usecase"
	"resume-builder/pkg/ai"
	"resume-builder/pkg/infrastructure"

	"go.uber.org/zap"
)

// app holds every service built from one config. Services are constructed
// once here and injected.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	db       *sql.DB
	kv       repository.KV
	jobs     *repository.ExportJobsRepo
	ai       ai.Service
	registry *render.Registry
	auth     *usecase.AuthService
	editor   *usecase.Editor
}

func bootstrap(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	if err := a.openStorage(ctx); err != nil {
		return nil, err
	}

	svc, err := ai.New(ctx, cfg.AIOptions(usecase.StepNames()), logger)
	if err != nil {
		logger.Warn("ai provider unavailable, continuing without it", zap.Error(err))
		svc = ai.NewUnavailable(logger)
	}
	a.ai = svc

	a.registry = render.DefaultRegistry(logger)
	raster := infrastructure.NewChromedpRasterizer(cfg.ChromePath, cfg.ExportTimeout, logger)
	var jobs export.JobsRepo
	if a.jobs != nil {
		jobs = a.jobs
	}

	a.auth = usecase.NewAuthService(ctx, a.kv, logger)
	a.editor = usecase.NewEditor(ctx, usecase.EditorDeps{
		Store:     usecase.NewDocumentStore(ctx, a.kv, logger),
		KV:        a.kv,
		Registry:  a.registry,
		Exporter:  export.NewPipeline(raster, jobs, logger),
		Improver:  svc,
		Assistant: svc,
		Logger:    logger,
	})
	return a, nil
}

func (a *app) openStorage(ctx context.Context) error {
	switch a.cfg.StorageDriver {
	case config.StorageMemory:
		a.kv = repository.NewMemoryKV()
		return nil
	case config.StorageFile:
		kv, err := repository.OpenFileKV(a.cfg.StoragePath, a.logger)
		if err != nil {
			return fmt.Errorf("open storage file: %w", err)
		}
		a.kv = kv
		return nil
	}

	db, dialect, err := a.openDB(ctx)
	if err != nil {
		return err
	}
	if err := migration.RunMigrations(ctx, db, a.logger); err != nil {
		db.Close()
		return fmt.Errorf("migrate: %w", err)
	}
	a.db = db
	a.kv = repository.NewSQLKV(db, dialect)
	a.jobs = repository.NewExportJobsRepo(db, dialect)
	return nil
}

func (a *app) openDB(ctx context.Context) (*sql.DB, repository.Dialect, error) {
	dialect, dsn, ok := a.cfg.SQLDialect()
	if !ok {
		return nil, "", fmt.Errorf("storage driver %q is not SQL backed", a.cfg.StorageDriver)
	}
	db, err := infrastructure.OpenDB(ctx, dialect.DriverName(), dsn)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", a.cfg.StorageDriver, err)
	}
	return db, dialect, nil
}

func (a *app) Close() {
	if a.ai != nil {
		if err := a.ai.Close(); err != nil {
			a.logger.Warn("closing ai client", zap.Error(err))
		}
	}
	if a.db != nil {
		a.db.Close()
	}
	_ = a.logger.Sync()
}

// loadApp reads config, builds the logger and bootstraps the services.
func loadApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		return nil, err
	}
	return bootstrap(ctx, cfg, logger)
}
