// Package http carries the gin-facing identity adapters.
package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	apierrors "github.com/nexyn/foods-api/internal/shared/errors"

	"github.com/nexyn/foods-api/internal/domains/identity/domain"
	"github.com/nexyn/foods-api/internal/domains/identity/ports"
)

const principalContextKey = "identity.principal"

// RequireAuth extracts and verifies the bearer credential, aborting with an
// authentication-failure problem when none is present or it does not verify.
// Authorization (ownership) checks stay with the handlers; this middleware
// only establishes who the caller is.
func RequireAuth(verifier ports.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			apierrors.Respond(c, apierrors.ErrUnauthorized.WithDetail("missing bearer credential"))
			c.Abort()
			return
		}
		principal, err := verifier.Verify(credential)
		if err != nil {
			apierrors.Respond(c, apierrors.ErrUnauthorized.WithDetail("credential is invalid or expired"))
			c.Abort()
			return
		}
		c.Set(principalContextKey, principal)
		c.Next()
	}
}

// PrincipalFrom returns the verified principal established by RequireAuth.
func PrincipalFrom(c *gin.Context) (domain.Principal, bool) {
	value, ok := c.Get(principalContextKey)
	if !ok {
		return "", false
	}
	principal, ok := value.(domain.Principal)
	return principal, ok
}

func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
