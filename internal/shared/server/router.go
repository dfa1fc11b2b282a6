package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"talentflow-backend/internal/assessments"
	"talentflow-backend/internal/candidates"
	"talentflow-backend/internal/jobs"
	"talentflow-backend/internal/pipeline"
	"talentflow-backend/internal/shared/config"
	"talentflow-backend/internal/shared/faults"
	"talentflow-backend/internal/shared/server/middleware"
	"talentflow-backend/internal/shared/server/respond"
)

// RouterDeps carries everything NewRouter needs. Faults defaults to the
// disabled injector when nil.
type RouterDeps struct {
	Config            config.Config
	Faults            faults.Injector
	JobsHandler       *jobs.Handler
	CandidatesHandler *candidates.Handler
	PipelineHandler   *pipeline.Handler
	AssessmentHandler *assessments.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"READ":  {Rate: 50, Burst: 100},
				"WRITE": {Rate: 10, Burst: 20},
			},
			GroupFor: middleware.WriteGroupFor,
		}),
	)
	if deps.Faults != nil {
		r.Use(faults.Middleware(deps.Faults))
	}

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.JobsHandler != nil {
		deps.JobsHandler.RegisterRoutes(api)
	}
	if deps.CandidatesHandler != nil {
		deps.CandidatesHandler.RegisterRoutes(api)
	}
	if deps.PipelineHandler != nil {
		deps.PipelineHandler.RegisterRoutes(api)
	}
	if deps.AssessmentHandler != nil {
		deps.AssessmentHandler.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
