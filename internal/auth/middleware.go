package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/convite-api/internal/response"
)

const claimsKey = "auth_claims"

// BearerToken extracts the token from the Authorization header, falling
// back to the "token" query parameter used by websocket clients.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return c.Query("token")
}

// RequireScope rejects requests whose token does not grant scope
func RequireScope(issuer *Issuer, scope Scope) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := BearerToken(c)
		if raw == "" {
			response.UnauthorizedError(c, "Authorization token is required")
			return
		}

		claims, err := issuer.Require(raw, scope)
		if err != nil {
			response.UnauthorizedError(c, err.Error())
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by RequireScope
func ClaimsFrom(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}
