package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/giftcard_vault/internal/identity"
	"github.com/Skotchmaster/giftcard_vault/internal/models"
	"github.com/Skotchmaster/giftcard_vault/internal/repo"
	"github.com/Skotchmaster/giftcard_vault/internal/storetest"
	"github.com/Skotchmaster/giftcard_vault/internal/tokens"
)

var testSecret = []byte("test-jwt-secret")

type published struct {
	Topic string
	Key   string
	Event map[string]any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, _ := event.(map[string]any)
	p.events = append(p.events, published{Topic: topic, Key: key, Event: m})
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Event["type"].(string))
	}
	return out
}

type testEnv struct {
	DB        *gorm.DB
	Repo      *repo.GormRepo
	Auth      *AuthService
	Giftcards *GiftcardService
	Events    *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := storetest.NewDB(t)
	r := repo.New(db)
	events := &recordingPublisher{}

	iss, err := tokens.NewIssuer(testSecret)
	require.NoError(t, err)
	ver, err := tokens.NewVerifier(testSecret)
	require.NoError(t, err)

	return &testEnv{
		DB:   db,
		Repo: r,
		Auth: &AuthService{
			Users:    r,
			Issuer:   iss,
			Verifier: ver,
			Resolver: identity.NewResolver(r, nil),
			Events:   events,
		},
		Giftcards: NewGiftcardService(r, events),
		Events:    events,
	}
}

func identityOf(u *models.User) identity.Identity {
	return identity.Identity{UserID: u.ID, Username: u.Username, Role: u.Role}
}

// staleStore reports a stale maximum so that Create collides with an
// existing row, the way a concurrent writer would make it.
type staleStore struct {
	*repo.GormRepo
}

func (staleStore) MaxGiftcardNumber(context.Context, string) (int, error) {
	return 0, nil
}

type failingStore struct {
	GiftcardStore
}

func (failingStore) GetGiftcard(context.Context, string, int) (*models.Giftcard, error) {
	return nil, errors.New("connection reset")
}
