package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"talentflow-backend/internal/shared/telemetry"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		// Handlers stash entity IDs so transitions can be traced per request.
		if candidateID, ok := c.Get("candidateId"); ok {
			fields["candidate_id"] = candidateID
		}
		if jobID, ok := c.Get("jobId"); ok {
			fields["job_id"] = jobID
		}
		if transition, ok := c.Get("stageTransition"); ok {
			fields["stage_transition"] = transition
		}

		telemetry.Info("request.complete", fields)
	}
}
