package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/borcelle/storefront/pkg/errors"
)

// respondError maps typed errors to status codes. Anything unrecognised is
// logged and reported as message with a 500.
func respondError(c *gin.Context, logger *zap.Logger, err error, message string) {
	var (
		notFound     *apperrors.ErrNotFound
		unauthorized *apperrors.ErrUnauthorized
		transition   *apperrors.ErrInvalidStateTransition
		conflict     *apperrors.ErrConflict
		validation   *apperrors.ErrValidation
		upstream     *apperrors.ErrUpstream
	)

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &unauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "validation failed",
			"details": err.Error(),
		})
	case errors.As(err, &upstream):
		logger.Error(message, zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": message})
	default:
		logger.Error(message, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":   "validation failed",
		"details": err.Error(),
	})
}
