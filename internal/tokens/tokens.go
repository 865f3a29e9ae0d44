// Package tokens issues and decodes the bearer tokens handed out at login.
//
// Tokens are HS256 JWTs carrying {id, username, role}. They have no expiry and
// are never stored server side. Decoding deliberately honours tokens whose
// header declares alg "none": such a token is trusted by username without any
// signature check. Callers receive that distinction through the Decoded
// variant and must handle both cases.
package tokens

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// AlgNone is the degenerate header value that bypasses signature checks.
const AlgNone = "none"

type Claims struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Decoded is either TrustedByUsername or Verified.
type Decoded interface {
	decoded()
}

// TrustedByUsername comes from an unsigned token. Only Username is meaningful.
type TrustedByUsername struct {
	Username string
}

// Verified comes from a token whose HS256 signature checked out.
type Verified struct {
	ID   string
	Role string
}

func (TrustedByUsername) decoded() {}
func (Verified) decoded()          {}
