package repo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/giftcard_vault/internal/models"
	"github.com/Skotchmaster/giftcard_vault/internal/repo"
	"github.com/Skotchmaster/giftcard_vault/internal/storetest"
)

func TestGormRepo_CreateUser_DuplicateUsernameIsConflict(t *testing.T) {
	t.Parallel()

	db := storetest.NewDB(t)
	r := repo.New(db)
	ctx := context.Background()

	require.NoError(t, r.CreateUser(ctx, &models.User{Username: "aldo", PasswordHash: "x", Role: models.RoleUser}))

	err := r.CreateUser(ctx, &models.User{Username: "aldo", PasswordHash: "y", Role: models.RoleUser})
	require.Error(t, err)
	assert.ErrorIs(t, err, repo.ErrConflict)
}

func TestGormRepo_CreateUser_DefaultsIDAndRole(t *testing.T) {
	t.Parallel()

	r := repo.New(storetest.NewDB(t))
	u := &models.User{Username: "maria", PasswordHash: "x"}

	require.NoError(t, r.CreateUser(context.Background(), u))
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.False(t, u.CreatedAt.IsZero())
}

func TestGormRepo_GetUser_NotFound(t *testing.T) {
	t.Parallel()

	r := repo.New(storetest.NewDB(t))
	ctx := context.Background()

	_, err := r.GetUserByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	_, err = r.GetUserByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestGormRepo_GetUserByUsername_IsExact(t *testing.T) {
	t.Parallel()

	db := storetest.NewDB(t)
	r := repo.New(db)
	want := storetest.CreateUser(t, db, "aldo", "secret1", models.RoleUser)

	got, err := r.GetUserByUsername(context.Background(), "aldo")
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)

	_, err = r.GetUserByUsername(context.Background(), "ald")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestGormRepo_Giftcards_ScopedAndOrdered(t *testing.T) {
	t.Parallel()

	db := storetest.NewDB(t)
	r := repo.New(db)
	ctx := context.Background()

	a := storetest.CreateUser(t, db, "alice", "secret1", models.RoleUser)
	b := storetest.CreateUser(t, db, "bob", "secret1", models.RoleUser)

	storetest.CreateGiftcard(t, db, a.ID, 2, "A-2")
	storetest.CreateGiftcard(t, db, a.ID, 1, "A-1")
	storetest.CreateGiftcard(t, db, b.ID, 1, "B-1")

	items, err := r.ListGiftcards(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].Number)
	assert.Equal(t, "A-1", items[0].Code)
	assert.Equal(t, 2, items[1].Number)

	empty, err := r.ListGiftcards(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	maxA, err := r.MaxGiftcardNumber(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, maxA)

	maxNone, err := r.MaxGiftcardNumber(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, maxNone)

	g, err := r.GetGiftcard(ctx, b.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "B-1", g.Code)

	_, err = r.GetGiftcard(ctx, b.ID, 2)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestGormRepo_CreateGiftcard_CompositeKeyConflict(t *testing.T) {
	t.Parallel()

	db := storetest.NewDB(t)
	r := repo.New(db)
	ctx := context.Background()

	a := storetest.CreateUser(t, db, "alice", "secret1", models.RoleUser)
	b := storetest.CreateUser(t, db, "bob", "secret1", models.RoleUser)

	require.NoError(t, r.CreateGiftcard(ctx, &models.Giftcard{UserID: a.ID, Number: 1, Code: "first"}))
	require.NoError(t, r.CreateGiftcard(ctx, &models.Giftcard{UserID: b.ID, Number: 1, Code: "other owner"}))

	err := r.CreateGiftcard(ctx, &models.Giftcard{UserID: a.ID, Number: 1, Code: "loser"})
	require.Error(t, err)
	assert.ErrorIs(t, err, repo.ErrConflict)

	g, err := r.GetGiftcard(ctx, a.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "first", g.Code)
}

func TestGormRepo_FindGiftcardByNumber_EarliestOwnerWins(t *testing.T) {
	t.Parallel()

	db := storetest.NewDB(t)
	r := repo.New(db)
	ctx := context.Background()

	a := storetest.CreateUser(t, db, "alice", "secret1", models.RoleUser)
	b := storetest.CreateUser(t, db, "bob", "secret1", models.RoleUser)

	now := time.Now().UTC()
	first := &models.Giftcard{UserID: b.ID, Number: 7, Code: "B-7", CreatedAt: now.Add(-time.Hour)}
	require.NoError(t, db.Create(first).Error)
	require.NoError(t, db.Create(&models.Giftcard{UserID: a.ID, Number: 7, Code: "A-7", CreatedAt: now}).Error)

	g, err := r.FindGiftcardByNumber(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, first.ID, g.ID)

	_, err = r.FindGiftcardByNumber(ctx, 8)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestGormRepo_SetGiftcardImage(t *testing.T) {
	t.Parallel()

	db := storetest.NewDB(t)
	r := repo.New(db)
	ctx := context.Background()

	u := storetest.CreateUser(t, db, "alice", "secret1", models.RoleUser)
	g := storetest.CreateGiftcard(t, db, u.ID, 1, "ABC")
	assert.Nil(t, g.ImageURL)

	url := "/giftcard-images/card-1.png"
	updated, err := r.SetGiftcardImage(ctx, g.ID, &url)
	require.NoError(t, err)
	require.NotNil(t, updated.ImageURL)
	assert.Equal(t, url, *updated.ImageURL)
	assert.Equal(t, "ABC", updated.Code)

	cleared, err := r.SetGiftcardImage(ctx, g.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, cleared.ImageURL)

	_, err = r.SetGiftcardImage(ctx, "missing", &url)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestGormRepo_FillGiftcards_SkipsExisting(t *testing.T) {
	t.Parallel()

	db := storetest.NewDB(t)
	r := repo.New(db)
	ctx := context.Background()

	u := storetest.CreateUser(t, db, "aldo", "secret1", models.RoleUser)
	storetest.CreateGiftcard(t, db, u.ID, 2, "existing")

	cards := []models.Giftcard{
		{UserID: u.ID, Number: 1, Code: "GC-001"},
		{UserID: u.ID, Number: 2, Code: "GC-002"},
		{UserID: u.ID, Number: 3, Code: "GC-003"},
	}
	inserted, err := r.FillGiftcards(ctx, cards, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 2, inserted)

	numbers, err := r.GiftcardNumbers(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, numbers)

	g, err := r.GetGiftcard(ctx, u.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, "existing", g.Code)
}

func newMockPostgres(t *testing.T) (*repo.GormRepo, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return repo.New(db), mock
}

func TestGormRepo_CreateGiftcard_PostgresUniqueViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{name: "lib/pq", err: &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"}},
		{name: "pgx", err: &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, mock := newMockPostgres(t)
			mock.ExpectExec(`INSERT INTO "giftcards"`).WillReturnError(tt.err)

			err := r.CreateGiftcard(context.Background(), &models.Giftcard{UserID: "u1", Number: 1, Code: "C"})
			require.Error(t, err)
			assert.ErrorIs(t, err, repo.ErrConflict)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGormRepo_CreateGiftcard_OtherPostgresErrorIsNotConflict(t *testing.T) {
	t.Parallel()

	r, mock := newMockPostgres(t)
	boom := &pq.Error{Code: "08006", Message: "connection failure"}
	mock.ExpectExec(`INSERT INTO "giftcards"`).WillReturnError(boom)

	err := r.CreateGiftcard(context.Background(), &models.Giftcard{UserID: "u1", Number: 1, Code: "C"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, repo.ErrConflict))
	require.NoError(t, mock.ExpectationsWereMet())
}
