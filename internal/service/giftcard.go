package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/giftcard_vault/internal/identity"
	"github.com/Skotchmaster/giftcard_vault/internal/logging"
	"github.com/Skotchmaster/giftcard_vault/internal/models"
	"github.com/Skotchmaster/giftcard_vault/internal/repo"
	"github.com/Skotchmaster/giftcard_vault/internal/transport"
)

type GiftcardStore interface {
	GiftcardLookup
	ListGiftcards(ctx context.Context, userID string) ([]models.Giftcard, error)
	MaxGiftcardNumber(ctx context.Context, userID string) (int, error)
	CreateGiftcard(ctx context.Context, g *models.Giftcard) error
	SetGiftcardImage(ctx context.Context, id string, imageURL *string) (*models.Giftcard, error)
}

type GiftcardService struct {
	Store  GiftcardStore
	Gate   *Gate
	Events Publisher
}

func NewGiftcardService(store GiftcardStore, events Publisher) *GiftcardService {
	return &GiftcardService{
		Store:  store,
		Gate:   &Gate{Store: store},
		Events: events,
	}
}

func (s *GiftcardService) List(ctx context.Context, userID string) ([]models.Giftcard, error) {
	items, err := s.Store.ListGiftcards(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list giftcards: %w", err)
	}
	return items, nil
}

// Create assigns the next free number for the user. Two concurrent creates
// can pick the same number; the loser gets ErrConflict.
func (s *GiftcardService) Create(ctx context.Context, userID string, req transport.CreateGiftcardRequest) (*models.Giftcard, error) {
	l := logging.FromContext(ctx).With("svc", "giftcard.create", "user_id", userID)

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: code is required", ErrValidation)
	}

	last, err := s.Store.MaxGiftcardNumber(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("next giftcard number: %w", err)
	}

	g := &models.Giftcard{
		UserID: userID,
		Number: last + 1,
		Code:   req.Code,
	}
	if err := s.Store.CreateGiftcard(ctx, g); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			l.Warn("giftcard_number_taken", "number", g.Number)
			return nil, fmt.Errorf("%w: giftcard number %d already exists", ErrConflict, g.Number)
		}
		return nil, fmt.Errorf("create giftcard: %w", err)
	}

	publish(ctx, s.Events, TopicGiftcardEvents, userID, map[string]any{
		"type":       EventGiftcardCreated,
		"userId":     userID,
		"giftcardId": g.ID,
		"number":     g.Number,
	})
	return g, nil
}

func (s *GiftcardService) Get(ctx context.Context, userID string, number int) (*models.Giftcard, error) {
	g, err := s.Store.GetGiftcard(ctx, userID, number)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: giftcard %d", ErrNotFound, number)
		}
		return nil, fmt.Errorf("get giftcard: %w", err)
	}
	return g, nil
}

// UpdateImage sets or clears the image url. A nil or empty url stores null.
func (s *GiftcardService) UpdateImage(ctx context.Context, ident identity.Identity, number int, imageURL *string) (*models.Giftcard, error) {
	target, err := s.Gate.AuthorizeMutation(ctx, ident, number)
	if err != nil {
		return nil, err
	}

	if imageURL != nil && *imageURL == "" {
		imageURL = nil
	}

	updated, err := s.Store.SetGiftcardImage(ctx, target.ID, imageURL)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: giftcard %d", ErrNotFound, number)
		}
		return nil, fmt.Errorf("update giftcard image: %w", err)
	}

	if target.UserID != ident.UserID {
		logging.FromContext(ctx).Info("giftcard_admin_override", "admin_id", ident.UserID, "owner_id", target.UserID, "number", number)
	}

	publish(ctx, s.Events, TopicGiftcardEvents, target.UserID, map[string]any{
		"type":       EventGiftcardImageUpdated,
		"userId":     target.UserID,
		"actorId":    ident.UserID,
		"giftcardId": updated.ID,
		"number":     updated.Number,
		"imageUrl":   updated.ImageURL,
	})
	return updated, nil
}
