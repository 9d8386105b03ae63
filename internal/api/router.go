// Package api serves read-only application progress over HTTP.
package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"carecase-workers/internal/api/middleware"
	"carecase-workers/internal/api/respond"
	"carecase-workers/internal/common/logger"
	"carecase-workers/internal/records"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Check is one readiness probe, such as a database ping.
type Check func(ctx context.Context) error

// Deps are the collaborators of the router.
type Deps struct {
	Store records.Store
	// Roster is optional; without it the roster endpoint answers 501.
	Roster RosterSearcher
	Logger logger.Logger
	// Checks run on /ready, keyed by dependency name.
	Checks map[string]Check
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	r.Use(
		middleware.RequestID(),
		middleware.Logging(log),
		middleware.Recovery(log),
	)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ready", readiness(deps.Checks))

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.OK(c, gin.H{"status": "healthy"})
	})

	h := NewHandler(deps.Store, log)
	h.RegisterRoutes(api)
	NewRosterHandler(deps.Roster, log).RegisterRoutes(api)

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	return r
}

func readiness(checks map[string]Check) gin.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		failed := map[string]string{}
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				failed[name] = err.Error()
			}
		}
		if len(failed) > 0 {
			respond.Error(c, http.StatusServiceUnavailable, "NOT_READY", "Dependencies unavailable", failed)
			return
		}
		respond.OK(c, gin.H{"status": "ready"})
	}
}
