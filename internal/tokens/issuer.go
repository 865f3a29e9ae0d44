package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Skotchmaster/giftcard_vault/internal/models"
)

type Issuer struct {
	secret []byte
	now    func() time.Time
}

func NewIssuer(secret []byte) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("tokens: signing secret is empty")
	}
	return &Issuer{secret: secret, now: time.Now}, nil
}

// Issue signs a token for a user whose password has already been checked.
// No exp claim is set; tokens stay valid for as long as the secret does.
func (i *Issuer) Issue(id, username, role string) (string, error) {
	if role == "" {
		role = models.RoleUser
	}
	claims := Claims{
		ID:       id,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(i.now()),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}
