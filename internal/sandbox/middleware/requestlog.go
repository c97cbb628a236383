package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-ID"

// RequestIDKey is the echo context key holding the request ID.
const RequestIDKey = "request_id"

// probePaths are logged on their first success and on every failure.
var probePaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
}

// RequestLog returns Echo middleware that logs each request with its
// method, path, status, duration and request ID. A missing X-Request-ID is
// generated and echoed back on the response.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	var seen sync.Map

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			c.Set(RequestIDKey, reqID)
			c.Response().Header().Set(requestIDHeader, reqID)

			err := next(c)

			path := c.Request().URL.Path
			status := c.Response().Status
			level := slog.LevelInfo

			if _, probe := probePaths[path]; probe {
				if status < 300 {
					if _, loaded := seen.LoadOrStore(path, struct{}{}); loaded {
						return err
					}
				} else {
					level = slog.LevelWarn
				}
			} else if status >= 500 {
				level = slog.LevelError
			}

			log.Log(c.Request().Context(), level, "request",
				"method", c.Request().Method,
				"path", path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			)

			return err
		}
	}
}
