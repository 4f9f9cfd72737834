package middleware

import (
	"net/http"
	"strings"

	"growthyari/models"
	"growthyari/utils"

	"github.com/gin-gonic/gin"
)

// principalKey is the gin context key holding the authenticated principal.
const principalKey = "principal"

// JWTAuth validates the externally issued bearer token and attaches the
// authenticated principal to the request context. Token issuance and user
// management live in the auth service; this layer only trusts and decodes.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		principal, err := utils.PrincipalFromToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// PrincipalFrom returns the authenticated principal set by JWTAuth.
func PrincipalFrom(c *gin.Context) (models.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return models.Principal{}, false
	}
	p, ok := v.(models.Principal)
	return p, ok
}
