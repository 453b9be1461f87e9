package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// AuthorizationHeader is the header key for authorization.
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens.
	BearerPrefix = "Bearer "
	// UserIDKey is the context key for user ID.
	UserIDKey = "user_id"
	// UsernameKey is the context key for username.
	UsernameKey = "username"
)

// JWTClaims is the subset of token claims the middleware propagates.
type JWTClaims struct {
	UserID   uuid.UUID
	Username string
}

// ValidateFunc validates an access token and returns its claims.
type ValidateFunc func(token string) (*JWTClaims, error)

// Auth returns a middleware that validates JWT tokens.
// If the token is valid, it sets user_id and username in the context.
// If optional is true, the middleware will not abort on missing/invalid tokens.
func Auth(validate ValidateFunc, optional bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			if !optional {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": gin.H{
						"code":    "UNAUTHORIZED",
						"message": "Authorization header required",
					},
				})
				return
			}
			c.Next()
			return
		}

		claims, err := validate(token)
		if err != nil {
			if !optional {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": gin.H{
						"code":    "INVALID_TOKEN",
						"message": "Invalid or expired token",
					},
				})
				return
			}
			c.Next()
			return
		}

		// Set user info in context
		c.Set(UserIDKey, claims.UserID)
		c.Set(UsernameKey, claims.Username)

		c.Next()
	}
}

// RequireAuth returns a middleware that requires a valid JWT token.
func RequireAuth(validate ValidateFunc) gin.HandlerFunc {
	return Auth(validate, false)
}

// OptionalAuth returns a middleware that optionally validates JWT tokens.
func OptionalAuth(validate ValidateFunc) gin.HandlerFunc {
	return Auth(validate, true)
}

// UserID returns the authenticated user ID from the gin context.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// extractBearerToken extracts the bearer token from the Authorization header.
func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader(AuthorizationHeader)
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(header, BearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(header, BearerPrefix)
}
