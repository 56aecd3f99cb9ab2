package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmptyPrincipal   = errors.New("principal is required")
	ErrInvalidPrincipal = errors.New("principal must contain '@'")
	// ErrNotOwner signals that a verified principal does not match the
	// declared owner/actor of the resource it is trying to mutate.
	ErrNotOwner = errors.New("principal does not own this resource")
)

// Principal is the authenticated identity associated with a request, an
// email-shaped string. Equality is exact and case-sensitive; no
// normalization is applied anywhere.
type Principal string

// NewPrincipal validates and constructs a Principal.
func NewPrincipal(raw string) (Principal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyPrincipal
	}
	if !strings.Contains(raw, "@") {
		return "", ErrInvalidPrincipal
	}
	return Principal(raw), nil
}

func (p Principal) String() string { return string(p) }

// Matches reports whether the principal equals the given identity exactly.
func (p Principal) Matches(other string) bool {
	return string(p) == other
}

// Authorize compares the verified principal against the resource's declared
// owner/actor. It must run before any mutating store operation; the owner
// value has to come from the stored record, never from the request body,
// wherever the two could diverge.
func Authorize(p Principal, owner string) error {
	if !p.Matches(owner) {
		return ErrNotOwner
	}
	return nil
}
