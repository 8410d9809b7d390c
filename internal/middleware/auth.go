package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"event-checkin/config"
	apperrors "event-checkin/pkg/app_errors"
	"event-checkin/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RoleKey is the gin context key holding the caller's role.
const RoleKey = "role"

// Authenticator maps static bearer tokens to roles.
type Authenticator struct {
	tokens map[string]string
}

func NewAuthenticator(cfg config.AuthConfig) *Authenticator {
	tokens := make(map[string]string, len(cfg.Tokens))
	for token, role := range cfg.Tokens {
		tokens[token] = role
	}
	if len(tokens) == 0 {
		logger.WithComponent("http").Warn("no auth tokens configured, authorization is disabled")
	}
	return &Authenticator{tokens: tokens}
}

func (a *Authenticator) Enabled() bool {
	return len(a.tokens) > 0
}

// AdminOnly admits the Admin role.
func (a *Authenticator) AdminOnly() gin.HandlerFunc {
	return a.RequireRoles(config.RoleAdmin)
}

// CheckInStaff admits Admin and CheckInStaff.
func (a *Authenticator) CheckInStaff() gin.HandlerFunc {
	return a.RequireRoles(config.RoleAdmin, config.RoleCheckInStaff)
}

// RequireRoles aborts with 401 for a missing or unknown token and 403 for a role outside roles.
func (a *Authenticator) RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.Enabled() {
			c.Next()
			return
		}

		role, ok := a.lookup(bearerToken(c.GetHeader("Authorization")))
		if !ok {
			c.Header("WWW-Authenticate", `Bearer realm="event-checkin"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrUnauthorized.Error()})
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Set(RoleKey, role)
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": apperrors.ErrForbidden.Error()})
	}
}

// lookup compares against every configured token in constant time.
func (a *Authenticator) lookup(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	var (
		role  string
		found bool
	)
	for candidate, r := range a.tokens {
		if secureCompare(token, candidate) {
			role, found = r, true
		}
	}
	return role, found
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
