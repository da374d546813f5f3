package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Oniqq60/staff_control/internal/respond"
)

const identityKey = "auth.identity"

// RequireAuth verifies the Bearer token and stores the caller's Identity.
func RequireAuth(tokens *TokenIssuer, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			log.Warn("authentication failed: missing or invalid authorization header",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
			)
			respond.Fail(c, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}

		claims, err := tokens.Parse(token)
		if err != nil {
			log.Warn("authentication failed: invalid or expired token",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			respond.Fail(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		SetIdentity(c, Identity{
			ID:    claims.UserID,
			Email: claims.Email,
			Role:  claims.Role,
		})
		c.Next()
	}
}

func SetIdentity(c *gin.Context, id Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the caller set by RequireAuth.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
