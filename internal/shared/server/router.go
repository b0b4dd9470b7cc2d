package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"autotask-ml/internal/predictions"
	"autotask-ml/internal/services/health"
	"autotask-ml/internal/shared/config"
	"autotask-ml/internal/shared/metrics"
	"autotask-ml/internal/shared/server/middleware"
	"autotask-ml/internal/shared/server/respond"
	"autotask-ml/internal/training"
)

const (
	rateLimitGroupDefault = "DEFAULT"
	rateLimitGroupBatch   = "BATCH"

	runningMessage = "AutoTaskAI ML Service is running"
)

// RouterDeps bundles handlers needed to build the router.
type RouterDeps struct {
	Config             config.Config
	Health             *health.Service
	PredictionsHandler *predictions.Handler
	TrainingHandler    *training.Handler
	RateLimiter        *middleware.RateLimiter
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
		middleware.RateLimit(rateLimitConfig(deps)),
	)

	r.GET("/", func(c *gin.Context) {
		respond.OK(c, gin.H{"message": runningMessage})
	})
	r.GET("/metrics", metrics.Handler())

	if deps.PredictionsHandler != nil {
		deps.PredictionsHandler.RegisterLegacyRoutes(&r.RouterGroup)
	}
	if deps.TrainingHandler != nil {
		deps.TrainingHandler.RegisterRoutes(&r.RouterGroup)
	}

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		status := deps.Health.Status()
		code := http.StatusOK
		if !status.OK {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})
	if deps.PredictionsHandler != nil {
		deps.PredictionsHandler.RegisterRoutes(api)
	}
	if deps.TrainingHandler != nil {
		deps.TrainingHandler.RegisterRoutes(api)
	}

	return r
}

func rateLimitConfig(deps RouterDeps) middleware.RateLimitConfig {
	rps := deps.Config.RateLimitRPS
	burst := deps.Config.RateLimitBurst
	batchBurst := burst / 4
	if batchBurst < 1 {
		batchBurst = 1
	}
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			rateLimitGroupDefault: {Rate: rps, Burst: burst},
			rateLimitGroupBatch:   {Rate: rps / 4, Burst: batchBurst},
		},
		DefaultGroup: rateLimitGroupDefault,
		GroupFor:     rateLimitGroup,
		Limiter:      deps.RateLimiter,
	}
}

func rateLimitGroup(c *gin.Context) string {
	path := c.Request.URL.Path
	switch {
	case path == "/metrics", path == "/api/v1/health", path == "/":
		return "NONE"
	case strings.HasSuffix(path, "/predict/batch"), strings.HasSuffix(path, "/train"):
		return rateLimitGroupBatch
	default:
		return rateLimitGroupDefault
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":5001"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
