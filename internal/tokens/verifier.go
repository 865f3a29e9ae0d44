package tokens

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

type Verifier struct {
	secret []byte
	peek   *jwt.Parser
	strict *jwt.Parser
}

func NewVerifier(secret []byte) (*Verifier, error) {
	if len(secret) == 0 {
		return nil, errors.New("tokens: verification secret is empty")
	}
	return &Verifier{
		secret: secret,
		peek:   jwt.NewParser(),
		strict: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}, nil
}

// Decode reads the header alg before looking at any signature. An alg of
// "none" yields TrustedByUsername with no further checks; anything else must
// pass HS256 verification and carry an id claim.
func (v *Verifier) Decode(raw string) (Decoded, error) {
	if raw == "" {
		return nil, fmt.Errorf("empty token: %w", ErrInvalidToken)
	}

	var unverified Claims
	tkn, _, err := v.peek.ParseUnverified(raw, &unverified)
	if err != nil {
		return nil, fmt.Errorf("malformed token: %w", errors.Join(ErrInvalidToken, err))
	}

	if alg, _ := tkn.Header["alg"].(string); alg == AlgNone {
		return TrustedByUsername{Username: unverified.Username}, nil
	}

	var claims Claims
	verified, err := v.strict.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !verified.Valid {
		return nil, fmt.Errorf("verify token: %w", errors.Join(ErrInvalidToken, err))
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("token has no id claim: %w", ErrInvalidToken)
	}

	return Verified{ID: claims.ID, Role: claims.Role}, nil
}
