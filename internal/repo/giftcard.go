package repo

import (
	"context"

	"github.com/Skotchmaster/giftcard_vault/internal/models"
	"gorm.io/gorm/clause"
)

func (r *GormRepo) ListGiftcards(ctx context.Context, userID string) ([]models.Giftcard, error) {
	items := make([]models.Giftcard, 0)
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("number ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) MaxGiftcardNumber(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.DB.WithContext(ctx).
		Model(&models.Giftcard{}).
		Where("user_id = ?", userID).
		Select("COALESCE(MAX(number), 0)").
		Scan(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *GormRepo) CreateGiftcard(ctx context.Context, g *models.Giftcard) error {
	return translate(r.DB.WithContext(ctx).Create(g).Error)
}

func (r *GormRepo) GetGiftcard(ctx context.Context, userID string, number int) (*models.Giftcard, error) {
	var g models.Giftcard
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND number = ?", userID, number).
		First(&g).Error; err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

// FindGiftcardByNumber ignores ownership. When several owners hold the same
// number the earliest created card is returned.
func (r *GormRepo) FindGiftcardByNumber(ctx context.Context, number int) (*models.Giftcard, error) {
	var g models.Giftcard
	if err := r.DB.WithContext(ctx).
		Where("number = ?", number).
		Order("created_at ASC").
		Order("id ASC").
		First(&g).Error; err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

func (r *GormRepo) SetGiftcardImage(ctx context.Context, id string, imageURL *string) (*models.Giftcard, error) {
	var value any
	if imageURL != nil {
		value = *imageURL
	}

	res := r.DB.WithContext(ctx).
		Model(&models.Giftcard{}).
		Where("id = ?", id).
		Update("image_url", value)
	if res.Error != nil {
		return nil, translate(res.Error)
	}

	var g models.Giftcard
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&g).Error; err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

// FillGiftcards inserts cards in batches and silently skips (user_id, number)
// pairs that already exist. It returns the number of inserted rows.
func (r *GormRepo) FillGiftcards(ctx context.Context, cards []models.Giftcard, batchSize int) (int64, error) {
	if len(cards) == 0 {
		return 0, nil
	}
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&cards, batchSize)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *GormRepo) GiftcardNumbers(ctx context.Context, userID string) ([]int, error) {
	var numbers []int
	if err := r.DB.WithContext(ctx).
		Model(&models.Giftcard{}).
		Where("user_id = ?", userID).
		Order("number ASC").
		Pluck("number", &numbers).Error; err != nil {
		return nil, err
	}
	return numbers, nil
}
