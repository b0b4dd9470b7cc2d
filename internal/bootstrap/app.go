package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"autotask-ml/internal/classifier"
	"autotask-ml/internal/predictions"
	"autotask-ml/internal/services/health"
	"autotask-ml/internal/shared/config"
	"autotask-ml/internal/shared/server"
	"autotask-ml/internal/shared/server/middleware"
	"autotask-ml/internal/shared/storage/db"
	"autotask-ml/internal/shared/storage/object"
	localstore "autotask-ml/internal/shared/storage/object/local"
	s3store "autotask-ml/internal/shared/storage/object/s3"
	"autotask-ml/internal/shared/telemetry"
	"autotask-ml/internal/taxonomy"
	"autotask-ml/internal/training"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config             config.Config
	Router             *gin.Engine
	DB                 *sql.DB
	Store              object.ObjectStore
	Taxonomy           taxonomy.Taxonomy
	Strategy           classifier.Strategy
	PredictionsRepo    predictions.Repo
	PredictionsService *predictions.Service
	TrainingService    *training.Service
	PredictionsHandler *predictions.Handler
	TrainingHandler    *training.Handler
	Health             *health.Service
}

// Build prepares dependencies and wires routes. Taxonomy and strategy
// errors are fatal; database errors fall back to memory in dev-like envs.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	if cfg.LogLevel != "" {
		telemetry.SetLevel(cfg.LogLevel)
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tx, err := buildTaxonomy(ctx, cfg, store)
	if err != nil {
		return nil, err
	}

	strategy, err := classifier.NewStrategy(cfg.ClassifierStrategy, tx)
	if err != nil {
		return nil, err
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		DB:       sqlDB,
		Store:    store,
		Taxonomy: tx,
		Strategy: strategy,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:             app.Config,
		Health:             app.Health,
		PredictionsHandler: app.PredictionsHandler,
		TrainingHandler:    app.TrainingHandler,
		RateLimiter:        middleware.NewRateLimiter(nil),
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":        cfg.Env,
		"strategy":   strategy.Name(),
		"categories": tx.Names(),
		"store":      cfg.ObjectStoreType,
		"history":    historyKind(sqlDB),
	})
	return app, nil
}

// Close releases the database connection, if any.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if config.IsDevLike(cfg.Env) {
			telemetry.Info("bootstrap.db_skipped", map[string]any{"reason": "DATABASE_URL empty; using in-memory history"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			_ = sqlDB.Close()
		}
	}
	if err != nil {
		if config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db_fallback", map[string]any{"error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildTaxonomy(ctx context.Context, cfg config.Config, store object.ObjectStore) (taxonomy.Taxonomy, error) {
	switch {
	case strings.TrimSpace(cfg.TaxonomyFile) != "":
		tx, err := taxonomy.LoadFile(cfg.TaxonomyFile)
		if err != nil {
			return taxonomy.Taxonomy{}, fmt.Errorf("load taxonomy file: %w", err)
		}
		return tx, nil
	case strings.TrimSpace(cfg.TaxonomyObjectKey) != "":
		tx, err := taxonomy.Load(ctx, store, cfg.TaxonomyObjectKey)
		if err != nil {
			return taxonomy.Taxonomy{}, fmt.Errorf("load taxonomy object: %w", err)
		}
		return tx, nil
	default:
		return taxonomy.Default(), nil
	}
}

func buildServices(app *App) {
	var repo predictions.Repo
	if app.DB != nil {
		repo = &predictions.PGRepo{DB: app.DB}
	} else {
		repo = predictions.NewMemoryRepo()
	}

	app.PredictionsRepo = repo
	app.PredictionsService = predictions.NewService(app.Strategy, repo)
	app.TrainingService = training.NewService(app.Taxonomy, app.Strategy.Name(), app.Store)
	app.PredictionsHandler = predictions.NewHandler(app.PredictionsService)
	app.TrainingHandler = training.NewHandler(app.TrainingService)
	app.Health = health.NewService(app.Strategy)
}

func historyKind(sqlDB *sql.DB) string {
	if sqlDB != nil {
		return "postgres"
	}
	return "memory"
}
