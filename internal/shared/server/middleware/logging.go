package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"autotask-ml/internal/shared/telemetry"
)

const (
	predictionIDKey = "predictionId"
	taskTypeKey     = "taskType"
	confidenceKey   = "confidence"
)

// SetPrediction records the prediction served by a handler so the request log
// line can carry it.
func SetPrediction(c *gin.Context, id, taskType string, confidence float64) {
	c.Set(predictionIDKey, id)
	c.Set(taskTypeKey, taskType)
	c.Set(confidenceKey, confidence)
}

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
		if taskType := c.GetString(taskTypeKey); taskType != "" {
			fields["task_type"] = taskType
			fields["confidence"] = c.GetFloat64(confidenceKey)
			fields["prediction_id"] = c.GetString(predictionIDKey)
		}
		telemetry.Info("request.complete", fields)
	}
}
