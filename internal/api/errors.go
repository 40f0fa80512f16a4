package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JustJay7/case-consult/internal/casefile"
	"github.com/JustJay7/case-consult/internal/portal"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, casefile.ErrInvalidCaseNumber), errors.Is(err, casefile.ErrNoAttachmentKey):
		return http.StatusBadRequest
	case errors.Is(err, casefile.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, casefile.ErrNotSelected), errors.Is(err, casefile.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, portal.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{
		"success": false,
		"error":   err.Error(),
	})
}
