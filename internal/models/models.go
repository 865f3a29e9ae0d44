package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"type:varchar(16);not null" json:"role"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

func (User) TableName() string {
	return "users"
}

// Giftcard numbers are unique per owner only, never globally.
type Giftcard struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string    `gorm:"type:varchar(36);uniqueIndex:idx_giftcards_user_number;not null" json:"-"`
	Number    int       `gorm:"uniqueIndex:idx_giftcards_user_number;not null;index" json:"number"`
	Code      string    `gorm:"not null" json:"code"`
	ImageURL  *string   `gorm:"column:image_url" json:"imageUrl"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

func (g *Giftcard) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

func (Giftcard) TableName() string {
	return "giftcards"
}
