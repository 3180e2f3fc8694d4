package server

import (
	"github.com/gin-gonic/gin"

	"orgdocs-backend/internal/auth"
	"orgdocs-backend/internal/services/health"
	"orgdocs-backend/internal/shared/config"
	"orgdocs-backend/internal/shared/metrics"
	"orgdocs-backend/internal/shared/server/middleware"
	"orgdocs-backend/internal/shared/server/respond"
	"orgdocs-backend/internal/uploads"
)

// RouterDeps carries the handlers mounted on the engine.
type RouterDeps struct {
	Config  config.Config
	Health  *health.Service
	SignIn  *auth.Handler
	Uploads *uploads.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env != "dev" && deps.Config.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.MaxMultipartMemory = deps.Config.MaxUploadBytes + (1 << 20)

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Metrics(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}
	api.GET("/health", func(c *gin.Context) {
		respond.OK(c, healthSvc.Status())
	})
	if deps.SignIn != nil {
		deps.SignIn.RegisterRoutes(api)
	}
	if deps.Uploads != nil {
		deps.Uploads.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":5000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
