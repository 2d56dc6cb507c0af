package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hamsafar/internal/api/middleware"
	"hamsafar/internal/domain"
	"hamsafar/internal/session"
)

// ErrorResponse is the body of every error answer.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"requestId,omitempty"`
}

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: middleware.GetRequestID(c),
	})
}

// respondError maps a domain error onto an HTTP status.
//
// Go Learning Note — errors.As vs switch err:
// Sentinel errors can be compared with ==, but typed errors (structs carrying
// fields) are matched with errors.As so wrapping with fmt.Errorf("%w") keeps
// working. The domain.IsX helpers wrap that call.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case domain.IsValidation(err):
		writeError(c, http.StatusBadRequest, "validation_error", err.Error())
	case domain.IsServiceUnavailable(err):
		writeError(c, http.StatusServiceUnavailable, "service_unavailable", err.Error())
	case domain.IsNotFound(err):
		writeError(c, http.StatusNotFound, "not_found", err.Error())
	case domain.IsConflict(err):
		writeError(c, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, domain.ErrConfirmationRequired):
		writeError(c, http.StatusPreconditionRequired, "confirmation_required", err.Error())
	case errors.Is(err, session.ErrInvalidSession):
		writeError(c, http.StatusUnauthorized, "invalid_session", err.Error())
	default:
		logger.Error("request failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		writeError(c, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func badRequest(c *gin.Context, err error) {
	writeError(c, http.StatusBadRequest, "bad_request", err.Error())
}

func respondFound(c *gin.Context, found bool, data interface{}) {
	if !found {
		c.JSON(http.StatusOK, gin.H{"found": false})
		return
	}
	if data == nil {
		c.JSON(http.StatusOK, gin.H{"found": true})
		return
	}
	c.JSON(http.StatusOK, data)
}
