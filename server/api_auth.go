package foodsserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	identityports "github.com/nexyn/foods-api/internal/domains/identity/ports"
)

// AuthAPI exchanges a caller identity for a signed access token.
type AuthAPI struct {
	issuer identityports.Issuer
}

// NewAuthAPI creates an AuthAPI backed by the provided token issuer.
func NewAuthAPI(issuer identityports.Issuer) AuthAPI {
	return AuthAPI{issuer: issuer}
}

// TokenRequest is the POST /jwt payload.
type TokenRequest struct {
	Email string `json:"email" binding:"required"`
	Name  string `json:"name"`
}

// TokenResponse carries the signed token back to the caller.
type TokenResponse struct {
	Token string `json:"token"`
}

// Post /jwt
// Issue an access token for the given identity
func (api *AuthAPI) IssueToken(c *gin.Context) {
	var payload TokenRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	token, err := api.issuer.Issue(payload.Email, payload.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, TokenResponse{Token: token})
}
