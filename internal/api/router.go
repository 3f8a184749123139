package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/ghgraph/ghgraph/internal/middleware"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log         *logrus.Logger
	Analyzer    Analyzer
	Stats       StatsReader
	Health      HealthChecker
	Version     string
	CORSOrigins []string // empty means allow all (development)
	Debug       bool
}

// NewRouter builds the gin engine with all middleware and routes.
func NewRouter(deps *RouterDeps) *gin.Engine {
	if !deps.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.

	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.CustomRecovery(func(c *gin.Context, _ any) {
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}))
	r.Use(corsMiddleware(deps.CORSOrigins))
	r.Use(middleware.Prometheus())

	// Metrics endpoint (unauthenticated, like health).
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	health := NewHealthHandler(deps.Health, deps.Log, deps.Version)
	analyze := NewAnalyzeHandler(deps.Analyzer, deps.Log)
	users := NewUserHandler(deps.Stats, deps.Log)
	languages := NewLanguageHandler(deps.Stats, deps.Log)
	network := NewNetworkHandler(deps.Stats, deps.Log)

	r.GET("/", health.Health)

	api := r.Group("/api")
	api.POST("/analyze/:login", analyze.Analyze)
	api.GET("/user/:login/stats", users.Stats)
	api.GET("/user/:login/repositories", users.Repositories)
	api.GET("/languages/popular", languages.Popular)
	api.GET("/network/graph/:login", network.Graph)

	r.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "Endpoint not found")
	})

	return r
}

// corsMiddleware allows all origins in development and restricts to the
// configured frontend origins in production.
func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:       1 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// ginLogger logs one structured line per completed request.
func ginLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
			"request_id": c.GetString(middleware.RequestIDKey),
		})

		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Error("request completed")
		} else {
			entry.Info("request completed")
		}
	}
}
