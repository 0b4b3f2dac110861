package handlers

import (
	"context"
	"errors"
	"net/http"

	"transparency-backend/auth"
	"transparency-backend/service"

	"github.com/gin-gonic/gin"
)

// statusClientClosedRequest is the nginx convention for a request abandoned by the client
const statusClientClosedRequest = 499

// respondError writes the error envelope for err. Internal failures are logged by the
// request middleware and not echoed to the client.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	status, code, message := http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		status, code, message = http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required"
	case errors.Is(err, service.ErrInvalidRequest):
		status, code, message = http.StatusBadRequest, "INVALID_REQUEST", err.Error()
	case errors.Is(err, service.ErrReportNotFound):
		status, code, message = http.StatusNotFound, "REPORT_NOT_FOUND", "Report not found"
	case errors.Is(err, context.Canceled):
		status, code, message = statusClientClosedRequest, "REQUEST_CANCELLED", "Request cancelled"
	case errors.Is(err, service.ErrGenerationFailed):
		status, code, message = http.StatusBadGateway, "GENERATION_FAILED", "Report generation failed, please retry"
	}

	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
