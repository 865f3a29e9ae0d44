package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/giftcard_vault/internal/hash"
	"github.com/Skotchmaster/giftcard_vault/internal/identity"
	"github.com/Skotchmaster/giftcard_vault/internal/logging"
	"github.com/Skotchmaster/giftcard_vault/internal/models"
	"github.com/Skotchmaster/giftcard_vault/internal/repo"
	"github.com/Skotchmaster/giftcard_vault/internal/tokens"
	"github.com/Skotchmaster/giftcard_vault/internal/transport"
)

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type AuthService struct {
	Users    UserStore
	Issuer   *tokens.Issuer
	Verifier *tokens.Verifier
	Resolver *identity.Resolver
	Events   Publisher
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register", "username", req.Username)

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: username must be at least 3 and password 6 to 72 characters", ErrValidation)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password is longer than 72 bytes", ErrValidation)
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: pwHash,
		Role:         models.RoleUser,
	}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			l.Warn("register_conflict")
			return nil, fmt.Errorf("%w: username already exists", ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	publish(ctx, s.Events, TopicUserEvents, user.ID, map[string]any{
		"type":     EventUserRegistered,
		"userId":   user.ID,
		"username": user.Username,
	})
	return user, nil
}

// Login reports unknown users and wrong passwords with the same error.
func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*transport.LoginResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	user, err := s.Users.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.Issuer.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	publish(ctx, s.Events, TopicUserEvents, user.ID, map[string]any{
		"type":     EventUserLoggedIn,
		"userId":   user.ID,
		"username": user.Username,
	})
	return &transport.LoginResult{Token: token, User: user}, nil
}

// Authenticate decodes a raw token and resolves it to a stored identity.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (identity.Identity, error) {
	user, err := s.Verify(ctx, raw)
	if err != nil {
		return identity.Identity{}, err
	}
	return identity.Identity{UserID: user.ID, Username: user.Username, Role: user.Role}, nil
}

// Verify returns the stored user a token resolves to.
func (s *AuthService) Verify(ctx context.Context, raw string) (*models.User, error) {
	decoded, err := s.Verifier.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	user, err := s.Resolver.ResolveUser(ctx, decoded)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) || errors.Is(err, tokens.ErrInvalidToken) {
			return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
		}
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	if _, trusted := decoded.(tokens.TrustedByUsername); trusted {
		logging.FromContext(ctx).Warn("unsigned_token_accepted", "user_id", user.ID, "username", user.Username)
	}
	return user, nil
}
