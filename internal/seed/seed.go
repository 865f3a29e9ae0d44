// Package seed fills a user's giftcard numbers 1..N for demo data.
package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/giftcard_vault/internal/logging"
	"github.com/Skotchmaster/giftcard_vault/internal/models"
)

const (
	DefaultCount = 150
	BatchSize    = 50
)

type Store interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GiftcardNumbers(ctx context.Context, userID string) ([]int, error)
	FillGiftcards(ctx context.Context, cards []models.Giftcard, batchSize int) (int64, error)
}

type Report struct {
	UserID   string
	Existing int
	Missing  []int
	Inserted int64
}

// Code returns "GC-<nnn>-<8 random upper case chars>".
func Code(number int) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("GC-%03d-%s", number, suffix)
}

// Missing lists the numbers in 1..upTo that are not in existing.
func Missing(existing []int, upTo int) []int {
	have := make(map[int]struct{}, len(existing))
	for _, n := range existing {
		have[n] = struct{}{}
	}
	var out []int
	for n := 1; n <= upTo; n++ {
		if _, ok := have[n]; !ok {
			out = append(out, n)
		}
	}
	return out
}

// Run reports the gaps in 1..count for username and fills them unless
// checkOnly is set. Existing cards are never touched.
func Run(ctx context.Context, s Store, username string, count int, checkOnly bool) (*Report, error) {
	l := logging.FromContext(ctx).With("svc", "seed", "username", username)

	if count < 1 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}

	user, err := s.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find user %q: %w", username, err)
	}

	existing, err := s.GiftcardNumbers(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list giftcard numbers: %w", err)
	}

	rep := &Report{
		UserID:   user.ID,
		Existing: len(existing),
		Missing:  Missing(existing, count),
	}
	l.Info("seed_check", "existing", rep.Existing, "missing", len(rep.Missing))
	if checkOnly || len(rep.Missing) == 0 {
		return rep, nil
	}

	cards := make([]models.Giftcard, 0, len(rep.Missing))
	for _, n := range rep.Missing {
		cards = append(cards, models.Giftcard{
			UserID: user.ID,
			Number: n,
			Code:   Code(n),
		})
	}

	rep.Inserted, err = s.FillGiftcards(ctx, cards, BatchSize)
	if err != nil {
		return nil, fmt.Errorf("insert giftcards: %w", err)
	}
	l.Info("seed_filled", "inserted", rep.Inserted)
	return rep, nil
}
