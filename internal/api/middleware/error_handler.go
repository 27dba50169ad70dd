package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"reelscribe/internal/api/errors"
)

// ErrorHandler recovers from panics and renders every error as a structured
// APIError body.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		requestID := c.GetString("request_id")

		var apiErr *errors.APIError

		switch err := recovered.(type) {
		case *errors.APIError:
			apiErr = err
			apiErr.RequestID = requestID
		case error:
			logger.Error("unhandled error",
				"error", err.Error(),
				"request_id", requestID,
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
			)
			apiErr = &errors.APIError{
				Kind:      errors.KindInternal,
				Message:   "internal server error",
				RequestID: requestID,
			}
		default:
			logger.Error("panic in handler", "recovered", recovered, "request_id", requestID)
			apiErr = &errors.APIError{
				Kind:      errors.KindInternal,
				Message:   "internal server error",
				RequestID: requestID,
			}
		}

		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(apiErr.HTTPStatus(), apiErr)
	})
}

// HandleError renders an error response from a handler. Pipeline errors are
// mapped to their HTTP status; anything unknown becomes a 500.
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	apiErr := errors.FromPipelineError(err)
	apiErr.RequestID = c.GetString("request_id")
	c.Header("Content-Type", "application/json")
	c.AbortWithStatusJSON(apiErr.HTTPStatus(), apiErr)
}
