package middleware

import (
	"log/slog"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"thumbcache/utils/logger"
)

// LoggingMiddleware logs one line per request. Health checks and metric
// scrapes are skipped.
func LoggingMiddleware(baseLogger *slog.Logger) echo.MiddlewareFunc {
	contextLogger := logger.NewContextLogger(baseLogger)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.URL.Path == "/v1/health" || req.URL.Path == "/metrics" {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				// let echo write the response so the status below is final
				c.Error(err)
			}
			duration := time.Since(start)

			ctx := req.Context()
			res := c.Response()
			attrs := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"status", res.Status,
				"duration_ms", duration.Milliseconds(),
				"response_size", res.Size,
			}
			if q := req.URL.RawQuery; q != "" && !strings.Contains(q, "token") {
				attrs = append(attrs, "query", q)
			}

			log := contextLogger.WithContext(ctx)
			switch {
			case res.Status >= 500:
				log.ErrorContext(ctx, "request completed", attrs...)
			case res.Status >= 400:
				log.WarnContext(ctx, "request completed", attrs...)
			default:
				log.InfoContext(ctx, "request completed", attrs...)
			}
			return nil
		}
	}
}
