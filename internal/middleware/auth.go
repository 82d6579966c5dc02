package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/collabridge/collabridge-api/internal/auth"
	"github.com/collabridge/collabridge-api/internal/constants"
	apierrors "github.com/collabridge/collabridge-api/internal/errors"
	"github.com/collabridge/collabridge-api/internal/models"
	"github.com/collabridge/collabridge-api/internal/services"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Authenticator resolves a raw token to the user it was issued to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, auth.Claims, error)
}

// RequireAuth checks the bearer token, falling back to the token kept in the
// browser session when no Authorization header is sent.
func RequireAuth(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		user, _, err := authn.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, services.ErrUnauthenticated) {
				apierrors.Unauthorized(c, "Invalid or expired token")
				return
			}
			apierrors.InternalError(c, err)
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyToken, token)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return "", false
		}
		return strings.TrimSpace(token), true
	}

	session := sessions.Default(c)
	if token, ok := session.Get(constants.ContextKeyToken).(string); ok && token != "" {
		return token, true
	}
	return "", false
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetToken returns the token the request authenticated with
func GetToken(c *gin.Context) string {
	return c.GetString(constants.ContextKeyToken)
}
