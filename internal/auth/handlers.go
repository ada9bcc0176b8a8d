package auth

import (
	"net/http"

	apperrors "ops-portal-backend/internal/errors"

	"github.com/gin-gonic/gin"
)

// AuthHandler exposes token issuance for environments without an external
// identity provider in front of the API
type AuthHandler struct {
	service *AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service *AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// TokenRequest is the body of a token issuance call
type TokenRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// TokenResponse carries an issued bearer token
type TokenResponse struct {
	Token string `json:"token"`
}

// IssueToken handles POST /api/auth/token
// @Summary Issue an API token
// @Description Issue a bearer token for a known user by email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body TokenRequest true "User email"
// @Success 200 {object} TokenResponse "Issued token"
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Failure 404 {object} map[string]interface{} "User not found"
// @Router /api/auth/token [post]
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.service.IssueToken(req.Email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if apperrors.IsAuthentication(err) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{Token: token})
}
