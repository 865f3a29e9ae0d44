// Package identity turns a decoded token into the caller's stored identity.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/giftcard_vault/internal/logging"
	"github.com/Skotchmaster/giftcard_vault/internal/models"
	"github.com/Skotchmaster/giftcard_vault/internal/repo"
	"github.com/Skotchmaster/giftcard_vault/internal/tokens"
)

var ErrUserNotFound = errors.New("user not found")

type Identity struct {
	UserID   string
	Username string
	Role     string
}

func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

type UserStore interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// UserCache is consulted before the store. A miss is reported as (nil, nil).
type UserCache interface {
	ByID(ctx context.Context, id string) (*models.User, error)
	ByUsername(ctx context.Context, username string) (*models.User, error)
	Put(ctx context.Context, u *models.User) error
}

type Resolver struct {
	Store UserStore
	Cache UserCache
}

func NewResolver(store UserStore, cache UserCache) *Resolver {
	return &Resolver{Store: store, Cache: cache}
}

// Resolve maps a decoded token to an Identity. The role always comes from
// the stored user, never from token claims.
func (r *Resolver) Resolve(ctx context.Context, d tokens.Decoded) (Identity, error) {
	u, err := r.ResolveUser(ctx, d)
	if err != nil {
		return Identity{}, err
	}
	return Identity{UserID: u.ID, Username: u.Username, Role: u.Role}, nil
}

func (r *Resolver) ResolveUser(ctx context.Context, d tokens.Decoded) (*models.User, error) {
	switch v := d.(type) {
	case tokens.TrustedByUsername:
		if v.Username == "" {
			return nil, fmt.Errorf("unsigned token without username: %w", ErrUserNotFound)
		}
		return r.lookup(ctx, "username", v.Username, r.byUsername)
	case tokens.Verified:
		return r.lookup(ctx, "id", v.ID, r.byID)
	default:
		return nil, fmt.Errorf("unsupported token form %T: %w", d, tokens.ErrInvalidToken)
	}
}

type lookupFunc func(ctx context.Context, key string) (*models.User, bool, error)

func (r *Resolver) lookup(ctx context.Context, kind, key string, fn lookupFunc) (*models.User, error) {
	u, cached, err := fn(ctx, key)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("no user with %s %q: %w", kind, key, ErrUserNotFound)
		}
		return nil, fmt.Errorf("load user by %s: %w", kind, err)
	}

	if !cached && r.Cache != nil {
		if err := r.Cache.Put(ctx, u); err != nil {
			logging.FromContext(ctx).Warn("identity_cache_put_failed", "user_id", u.ID, "error", err)
		}
	}
	return u, nil
}

func (r *Resolver) byUsername(ctx context.Context, username string) (*models.User, bool, error) {
	if r.Cache != nil {
		u, err := r.Cache.ByUsername(ctx, username)
		if err != nil {
			logging.FromContext(ctx).Warn("identity_cache_get_failed", "username", username, "error", err)
		} else if u != nil {
			return u, true, nil
		}
	}
	u, err := r.Store.GetUserByUsername(ctx, username)
	return u, false, err
}

func (r *Resolver) byID(ctx context.Context, id string) (*models.User, bool, error) {
	if r.Cache != nil {
		u, err := r.Cache.ByID(ctx, id)
		if err != nil {
			logging.FromContext(ctx).Warn("identity_cache_get_failed", "user_id", id, "error", err)
		} else if u != nil {
			return u, true, nil
		}
	}
	u, err := r.Store.GetUserByID(ctx, id)
	return u, false, err
}
