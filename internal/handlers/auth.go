package handlers

import (
	"net/http"

	"github.com/collabridge/collabridge-api/internal/constants"
	"github.com/collabridge/collabridge-api/internal/dto"
	apierrors "github.com/collabridge/collabridge-api/internal/errors"
	"github.com/collabridge/collabridge-api/internal/middleware"
	"github.com/collabridge/collabridge-api/internal/services"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a user and returns a token for it.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Name     string `json:"name"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if !h.saveSession(c, result.Token) {
		return
	}
	respond(c, http.StatusCreated, "User registered successfully", dto.AuthDTO{
		Token: result.Token,
		User:  dto.ToUserDTO(*result.User),
	})
}

// Login authenticates by username or email.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Identifier: req.Identifier,
		Password:   req.Password,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if !h.saveSession(c, result.Token) {
		return
	}
	respond(c, http.StatusOK, "Login successful", dto.AuthDTO{
		Token: result.Token,
		User:  dto.ToUserDTO(*result.User),
	})
}

// Logout revokes the current token and clears the browser session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.GetToken(c)); err != nil {
		apierrors.InternalError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, err)
		return
	}

	respond(c, http.StatusOK, "Logged out successfully", nil)
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Current user", dto.ToUserDTO(*user))
}

func (h *AuthHandler) saveSession(c *gin.Context, token string) bool {
	session := sessions.Default(c)
	session.Set(constants.ContextKeyToken, token)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, err)
		return false
	}
	return true
}
