package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/badgescan/internal/apperror"
)

type errorPayload struct {
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrRateLimited        = errors.New("rate_limited")
	ErrServiceUnavailable = errors.New("service_unavailable")
	ErrNoScans            = apperror.NotFound("no_scans_found", "no scans found")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError(message string) error {
	return apperror.InvalidArgument("invalid_request", message)
}

// mapError turns a service failure into a status and body. Domain kinds
// become 4xx; anything unclassified is a 500 with a generic message.
func mapError(err error) (int, errorPayload) {
	switch {
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	}

	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Kind == apperror.KindInternal {
		return http.StatusInternalServerError, errorPayload{
			Type:    string(apperror.KindInternal),
			Code:    "internal_error",
			Message: "internal server error",
		}
	}

	status := http.StatusBadRequest
	if appErr.Kind == apperror.KindNotFound {
		status = http.StatusNotFound
	}
	message := appErr.Message
	if message == "" {
		message = appErr.Code
	}
	return status, errorPayload{
		Type:    string(appErr.Kind),
		Code:    appErr.Code,
		Message: message,
	}
}

func classifyErrorForLog(err error) (string, string) {
	switch {
	case errors.Is(err, ErrRateLimited):
		return "rate_limited", "rate_limited"
	case errors.Is(err, ErrServiceUnavailable):
		return "service_unavailable", "service_unavailable"
	}
	return string(apperror.KindOf(err)), apperror.CodeOf(err)
}
