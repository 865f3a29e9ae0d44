package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/giftcard_vault/internal/identity"
	"github.com/Skotchmaster/giftcard_vault/internal/models"
	"github.com/Skotchmaster/giftcard_vault/internal/repo"
)

type GiftcardLookup interface {
	GetGiftcard(ctx context.Context, userID string, number int) (*models.Giftcard, error)
	FindGiftcardByNumber(ctx context.Context, number int) (*models.Giftcard, error)
}

// Gate decides whether an identity may mutate the giftcard with a number.
type Gate struct {
	Store GiftcardLookup
}

// AuthorizeMutation returns the card the caller may mutate. The caller's own
// card wins; otherwise any card with that number is found and only an admin
// may touch it.
func (g *Gate) AuthorizeMutation(ctx context.Context, ident identity.Identity, number int) (*models.Giftcard, error) {
	own, err := g.Store.GetGiftcard(ctx, ident.UserID, number)
	if err == nil {
		return own, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("load own giftcard: %w", err)
	}

	other, err := g.Store.FindGiftcardByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: giftcard %d", ErrNotFound, number)
		}
		return nil, fmt.Errorf("find giftcard: %w", err)
	}

	if !ident.IsAdmin() {
		return nil, fmt.Errorf("%w: giftcard %d belongs to another user", ErrForbidden, number)
	}
	return other, nil
}
