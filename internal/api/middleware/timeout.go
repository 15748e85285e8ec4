package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// TimeoutConfig returns timeout middleware configuration
func TimeoutConfig(timeout time.Duration) echo.MiddlewareFunc {
	return middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout:      timeout,
		ErrorMessage: `{"status":"FAILURE","message":"Request timed out","error":"TIMEOUT"}`,
	})
}

// SelectiveTimeoutConfig applies longTimeout to routes that talk to slow
// upstreams and defaultTimeout to everything else
func SelectiveTimeoutConfig(defaultTimeout, longTimeout time.Duration) echo.MiddlewareFunc {
	short := TimeoutConfig(defaultTimeout)
	long := TimeoutConfig(longTimeout)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		shortNext := short(next)
		longNext := long(next)
		return func(c echo.Context) error {
			if isLongRunning(c.Path()) {
				return longNext(c)
			}
			return shortNext(c)
		}
	}
}

func isLongRunning(path string) bool {
	return strings.HasSuffix(path, "/download") || strings.HasSuffix(path, "/contact")
}
