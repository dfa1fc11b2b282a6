// Package bootstrap builds the application graph: storage, cache, events,
// services, handlers and the router, with dev fallbacks for missing
// dependencies.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"talentflow-backend/internal/assessments"
	"talentflow-backend/internal/candidates"
	"talentflow-backend/internal/events"
	"talentflow-backend/internal/jobs"
	"talentflow-backend/internal/mutate"
	"talentflow-backend/internal/pipeline"
	"talentflow-backend/internal/seed"
	"talentflow-backend/internal/shared/cache"
	"talentflow-backend/internal/shared/config"
	"talentflow-backend/internal/shared/faults"
	"talentflow-backend/internal/shared/server"
	"talentflow-backend/internal/shared/storage/db"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Cache  cache.Cache
	Events events.Publisher
	Runner *mutate.Runner

	JobsRepo       jobs.Repo
	CandidatesRepo candidates.Repo
	AssessmentRepo assessments.Repo

	JobsService       *jobs.Service
	CandidatesService *candidates.Service
	PipelineService   *pipeline.Service
	AssessmentService *assessments.Service

	JobsHandler       *jobs.Handler
	CandidatesHandler *candidates.Handler
	PipelineHandler   *pipeline.Handler
	AssessmentHandler *assessments.Handler
}

// Build prepares the full application graph.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	appCache, publisher := buildRedis(ctx, cfg)

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Cache:  appCache,
		Events: publisher,
		Runner: mutate.NewRunner(),
	}

	if app.DB != nil {
		app.JobsRepo = &jobs.PGRepo{DB: app.DB}
		app.CandidatesRepo = &candidates.PGRepo{DB: app.DB}
		app.AssessmentRepo = &assessments.PGRepo{DB: app.DB}
	} else {
		app.JobsRepo = jobs.NewMemoryRepo()
		app.CandidatesRepo = candidates.NewMemoryRepo()
		app.AssessmentRepo = assessments.NewMemoryRepo()
	}

	app.JobsService = jobs.NewService(app.JobsRepo, app.Runner)
	app.CandidatesService = candidates.NewService(app.CandidatesRepo, app.Runner, app.Events, app.Cache)
	app.PipelineService = pipeline.NewService(app.CandidatesService)
	app.AssessmentService = assessments.NewService(app.AssessmentRepo, app.Runner)

	app.JobsHandler = jobs.NewHandler(app.JobsService)
	app.CandidatesHandler = candidates.NewHandler(app.CandidatesService)
	app.PipelineHandler = pipeline.NewHandler(app.PipelineService)
	app.AssessmentHandler = assessments.NewHandler(app.AssessmentService)

	if cfg.SeedOnStart {
		seeder := &seed.Seeder{
			Jobs:        app.JobsService,
			Candidates:  app.CandidatesService,
			Assessments: app.AssessmentService,
		}
		if err := seeder.Run(ctx); err != nil {
			// Seeding is convenience, not correctness.
			log.Printf("bootstrap: seeding failed: %v", err)
		}
	}

	var injector faults.Injector
	if cfg.FaultInjection {
		injector = faults.NewRandom(time.Now().UnixNano())
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            cfg,
		Faults:            injector,
		JobsHandler:       app.JobsHandler,
		CandidatesHandler: app.CandidatesHandler,
		PipelineHandler:   app.PipelineHandler,
		AssessmentHandler: app.AssessmentHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if cfg.IsDevLike() {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		if cfg.IsDevLike() {
			log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
			_ = sqlDB.Close()
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

// buildRedis wires the cache and event publisher off one Redis client. With
// no Redis configured the app degrades to an in-process cache and dropped
// events.
func buildRedis(ctx context.Context, cfg config.Config) (cache.Cache, events.Publisher) {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return cache.NewMemoryCache(), events.Noop{}
	}

	redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL)
	if err != nil {
		log.Printf("bootstrap: redis unavailable; using in-memory cache: %v", err)
		return cache.NewMemoryCache(), events.Noop{}
	}
	return redisCache, events.NewRedisPublisher(redisCache.Client)
}
