// Package storetest opens throwaway in-memory stores for package tests.
package storetest

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/giftcard_vault/internal/hash"
	"github.com/Skotchmaster/giftcard_vault/internal/models"
	"github.com/Skotchmaster/giftcard_vault/internal/repo"
)

// NewDB returns a migrated sqlite database private to the calling test.
// It is pinned to one connection because every new ":memory:" connection
// would otherwise see its own empty database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to connect to in-memory db")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, repo.AutoMigrate(db), "failed to migrate tables")

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// CreateUser stores a user with a real bcrypt hash of password.
func CreateUser(t *testing.T, db *gorm.DB, username, password, role string) *models.User {
	t.Helper()

	pwHash, err := hash.HashPassword(password)
	require.NoError(t, err)

	u := &models.User{
		Username:     username,
		PasswordHash: pwHash,
		Role:         role,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateGiftcard(t *testing.T, db *gorm.DB, userID string, number int, code string) *models.Giftcard {
	t.Helper()

	g := &models.Giftcard{
		UserID: userID,
		Number: number,
		Code:   code,
	}
	require.NoError(t, db.Create(g).Error)
	return g
}
