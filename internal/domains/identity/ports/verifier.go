package ports

import (
	"errors"

	"github.com/nexyn/foods-api/internal/domains/identity/domain"
)

// ErrInvalidCredential covers structurally broken, badly signed, and expired
// tokens alike; callers must treat it as "no trusted identity available".
var ErrInvalidCredential = errors.New("credential is invalid or expired")

// Verifier validates an opaque bearer credential and extracts the embedded
// principal. Verification is a pure function of the credential and the
// configured key material; no store lookup is performed.
type Verifier interface {
	Verify(credential string) (domain.Principal, error)
}

// Issuer mints bearer credentials for a claimed identity. The marketplace
// issues its own tokens; verification stays independent of issuance.
type Issuer interface {
	Issue(email, name string) (string, error)
}
