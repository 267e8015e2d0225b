package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vrdaw-dev/vrdaw/internal/common"
	"github.com/vrdaw-dev/vrdaw/internal/logging"
)

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrBadRequest):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, common.ErrConflict):
		// duplicate registrations are reported as 400
		return http.StatusBadRequest, "Already exists"
	case errors.Is(err, common.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, "Not found"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// respondError writes err as {"error": msg}. Only unexpected errors are
// logged; their details never reach the client.
func respondError(ctx *gin.Context, logger logging.Logger, err error) {
	status, msg := statusFor(err)

	if status == http.StatusInternalServerError {
		logger.Error(ctx.Request.Context(), "request failed",
			"method", ctx.Request.Method, "path", ctx.Request.URL.Path, "error", err)
		ctx.JSON(status, gin.H{"error": msg})
		return
	}

	if m, ok := common.Message(err); ok {
		msg = m
	}

	ctx.JSON(status, gin.H{"error": msg})
}
