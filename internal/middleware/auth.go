// Package middleware provides HTTP middleware for the LMS API.
package middleware

import (
	"net/http"
	"strings"

	"github.com/campus-labs/lms-api/internal/models"
	"github.com/campus-labs/lms-api/internal/problem"
	"github.com/campus-labs/lms-api/internal/service"
	"github.com/gin-gonic/gin"
)

// claimsKey is the gin context key the validated claims are stored under.
const claimsKey = "access_claims"

// Authenticate validates the bearer token on every request and stores the
// claims in the request context.
func Authenticate(tokens service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			problem.Abort(c, http.StatusUnauthorized, "Unauthorized",
				"Missing or malformed Authorization header.")
			return
		}

		claims, err := tokens.ParseAccessToken(token)
		if err != nil {
			problem.Abort(c, http.StatusUnauthorized, "Unauthorized",
				"Invalid or expired access token.")
			return
		}

		SetClaims(c, claims)
		c.Next()
	}
}

// SetClaims stores validated claims on the request context.
func SetClaims(c *gin.Context, claims *service.AccessClaims) {
	c.Set(claimsKey, claims)
}

// RequireRole aborts with 403 unless the caller holds the given role.
// Must run after Authenticate.
func RequireRole(role models.RoleName) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok || !hasRole(claims, role) {
			problem.Abort(c, http.StatusForbidden, "Forbidden",
				"This operation requires the "+string(role)+" role.")
			return
		}
		c.Next()
	}
}

// ClaimsFromContext returns the claims stored by Authenticate.
func ClaimsFromContext(c *gin.Context) (*service.AccessClaims, bool) {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*service.AccessClaims)
	return claims, ok
}

func hasRole(claims *service.AccessClaims, role models.RoleName) bool {
	for _, r := range claims.Roles {
		if r == string(role) {
			return true
		}
	}
	return false
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.Split(header, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
