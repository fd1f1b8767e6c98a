package logger

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestIDMiddleware tags every request with an X-Request-ID, reusing
// the client's when present, and stores it in the request context.
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()

		reqID := req.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}

		ctx := WithRequestID(req.Context(), reqID)
		c.Response().Header().Set("X-Request-ID", reqID)
		c.SetRequest(req.WithContext(ctx))

		return next(c)
	}
}

// LoggingMiddleware logs every request after it completes.
func LoggingMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		log := FromCtx(c.Request().Context())

		err := next(c)

		log.Info("incoming request",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.String("ip", c.RealIP()),
			zap.Int("status", c.Response().Status),
			zap.Duration("duration_ms", time.Since(start)),
		)

		return err
	}
}
