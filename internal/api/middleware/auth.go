// Package middleware provides HTTP middleware for the Gin router.
//
// Go Learning Note — Middleware Pattern (Gin):
// In Gin, middleware is any function with the signature `gin.HandlerFunc`, which
// is `func(*gin.Context)`. Middleware functions form a chain: each one runs,
// optionally calls c.Next() to pass control to the next handler, and can call
// c.Abort() to stop the chain.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hamsafar/internal/domain/entities"
	"hamsafar/internal/session"
)

// Context keys for values set by Auth.
const (
	UserKey  = "user"
	TokenKey = "session_token"
)

// Authenticator resolves a session token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*entities.User, error)
}

// Auth accepts "Authorization: Bearer <token>" or, for websocket upgrades
// where browsers cannot set headers, a token query parameter.
//
// Go Learning Note — c.Abort():
// c.Abort() prevents subsequent handlers in the chain from running. Without it,
// even after writing an error response, the next handler would still execute.
func Auth(auth Authenticator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session token"})
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, session.ErrInvalidSession) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
				return
			}
			logger.Error("session lookup failed", zap.String("request_id", GetRequestID(c)), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session lookup failed"})
			return
		}

		c.Set(UserKey, user)
		c.Set(TokenKey, token)
		c.Next()
	}
}

func bearerToken(header string) string {
	// strings.SplitN splits into at most 2 parts, handling tokens with spaces.
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAdmin lets only the admin through. Must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetUser(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// RequireCustomer keeps the admin out of the customer booking flow.
func RequireCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUser(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "customer access required"})
			return
		}
		c.Next()
	}
}

// GetUser retrieves the user stored by Auth.
//
// Go Learning Note — Type Assertion:
// c.MustGet panics when the key is missing, which can only happen if a route
// forgot the Auth middleware: a programming error, not a request error.
func GetUser(c *gin.Context) *entities.User {
	return c.MustGet(UserKey).(*entities.User)
}

func GetToken(c *gin.Context) string {
	return c.GetString(TokenKey)
}
