package handlers

import (
	"errors"
	"net/http"
	"strconv"

	apperrors "ops-portal-backend/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// principalID extracts the authenticated user ID set by the auth middleware.
// Writes a 401 and returns false when the context carries no valid principal.
func principalID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString("user_id")
	if raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid principal identifier"})
		return uuid.Nil, false
	}
	return id, true
}

// pathUUID parses a UUID path parameter, writing a 400 on failure
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " format"})
		return uuid.Nil, false
	}
	return id, true
}

// pagination reads page/page_size query parameters with sane defaults
func pagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return page, pageSize
}

// respondError maps service errors onto HTTP status codes
func respondError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors

	switch {
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperrors.IsAlreadyExists(err), apperrors.IsInvalidState(err),
		errors.Is(err, apperrors.ErrLastOwner):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case apperrors.IsAuthorization(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case apperrors.IsValidation(err), errors.As(err, &validationErrs),
		errors.Is(err, apperrors.ErrSameTeamTransfer),
		errors.Is(err, apperrors.ErrRequesterNoTeam):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperrors.IsDependencyFailure(err):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
