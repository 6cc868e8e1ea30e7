package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"print-order-backend/internal/models"
)

const CurrentUserKey = "current_user"

// Authenticator resolves a bearer token to the account it was issued for.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

func unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
		Error:   "invalid authentication credentials",
		Message: message,
	})
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return "", false
	}

	// Some clients URL-encode the token.
	if decoded, err := url.QueryUnescape(tokenString); err == nil {
		tokenString = decoded
	}
	return tokenString, true
}

// AuthMiddleware requires a valid token whose subject still exists with the
// role the token was issued for.
func AuthMiddleware(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			unauthorized(c, "missing or malformed authorization header")
			return
		}

		user, err := authn.Authenticate(c.Request.Context(), token)
		if err != nil {
			unauthorized(c, err.Error())
			return
		}

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the user when a valid token is present.
// Any failure leaves the request anonymous.
func OptionalAuthMiddleware(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if user, err := authn.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(CurrentUserKey, user)
			}
		}
		c.Next()
	}
}

// RequireAdmin must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentUser(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{Error: "need admin role"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
