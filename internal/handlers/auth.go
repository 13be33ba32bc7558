package handlers

import (
	"net/http"

	"github.com/JonnyWalker81/formcraft/backend/internal/models"
	"github.com/JonnyWalker81/formcraft/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	authResp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err, "User")
		return
	}

	c.JSON(http.StatusCreated, authResp)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	authResp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err, "User")
		return
	}

	c.JSON(http.StatusOK, authResp)
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err, "User")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
