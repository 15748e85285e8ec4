package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"resume-builder/internal/logging"
	"resume-builder/pkg/models"
	"resume-builder/pkg/utils"
)

// MaxBodyBytes bounds request bodies
const MaxBodyBytes = 1024 * 1024

// RequestValidation assigns a request id and rejects oversized bodies
func RequestValidation() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := utils.GenerateRequestID()
			c.Set("request_id", requestID)
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			req := c.Request()
			c.SetRequest(req.WithContext(logging.ContextWithRequestID(req.Context(), requestID)))

			switch req.Method {
			case http.MethodPost, http.MethodPut:
				if req.ContentLength > MaxBodyBytes {
					return c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
						Error:     "request_too_large",
						Message:   "Request body too large",
						RequestID: requestID,
						Timestamp: time.Now(),
					})
				}
			}

			return next(c)
		}
	}
}

// RequestLogger writes one structured line per request
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logger := logging.GetGlobalLogger().WithContext(c.Request().Context())
			fields := map[string]interface{}{
				"method":   c.Request().Method,
				"path":     c.Path(),
				"status":   c.Response().Status,
				"latency":  utils.FormatDuration(time.Since(start)),
				"bytes":    c.Response().Size,
				"remoteIP": c.RealIP(),
			}
			if c.Response().Status >= http.StatusInternalServerError {
				logger.Error("Request completed", fields)
			} else {
				logger.Info("Request completed", fields)
			}
			return nil
		}
	}
}
