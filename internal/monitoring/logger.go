package monitoring

import (
	"log/slog"
	"os"
	"time"
)

// Logger provides enhanced structured logging with context
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new enhanced logger
func NewLogger() *Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   "timestamp",
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	})

	return &Logger{
		Logger: slog.New(handler),
	}
}

// RequestLogger logs HTTP request details
func (l *Logger) RequestLogger(method, path, ip, userAgent string, statusCode int, duration time.Duration) {
	l.Info("HTTP Request",
		"method", method,
		"path", path,
		"ip", ip,
		"user_agent", userAgent,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
	)
}

// EvaluationLogger logs scoring pipeline details for one business
func (l *Logger) EvaluationLogger(business string, trustScore int, fraudConfidence float64, ratingCount int, duration time.Duration, cacheHit bool) {
	l.Info("Evaluation Completed",
		"business", business,
		"trust_score", trustScore,
		"fraud_confidence", fraudConfidence,
		"rating_count", ratingCount,
		"duration_ms", duration.Milliseconds(),
		"cache_hit", cacheHit,
	)
}

// DatasetLogger logs dataset load details
func (l *Logger) DatasetLogger(businesses, ratings int, globalAverage float64, duration time.Duration) {
	l.Info("Dataset Loaded",
		"businesses", businesses,
		"ratings", ratings,
		"global_average", globalAverage,
		"duration_ms", duration.Milliseconds(),
	)
}

// APIErrorLogger logs API errors with context
func (l *Logger) APIErrorLogger(err error, method, path, ip string, statusCode int) {
	l.Error("API Error",
		"error", err.Error(),
		"method", method,
		"path", path,
		"ip", ip,
		"status_code", statusCode,
	)
}

// PerformanceLogger logs performance-related observations
func (l *Logger) PerformanceLogger(metric string, value float64, unit string) {
	l.Warn("Performance Warning",
		"metric", metric,
		"value", value,
		"unit", unit,
	)
}

// SystemLogger logs system-level events
func (l *Logger) SystemLogger(event, details string) {
	l.Info("System Event",
		"event", event,
		"details", details,
	)
}
