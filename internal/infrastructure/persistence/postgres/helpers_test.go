package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rafabene/gearshare-backend/internal/domain/entities"
)

// newTestDB abre um SQLite em memória com chaves estrangeiras ativas e o schema migrado
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), NewGormConfig("error"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

func seedUser(t *testing.T, repo *UserRepository, username string, role entities.Role) *entities.User {
	t.Helper()

	user := &entities.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		FullName:     "User " + username,
		Phone:        "0501234567",
		Merhav:       entities.MerhavDan,
		Role:         role,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func seedListing(t *testing.T, repo *ListingRepository, ownerID, title string, mutate func(*entities.Listing)) *entities.Listing {
	t.Helper()

	listing := &entities.Listing{
		OwnerID:         ownerID,
		Title:           title,
		Category:        entities.CategoryCoats,
		TransactionType: entities.TransactionLend,
		Merhav:          entities.MerhavDan,
		IsAvailable:     true,
	}
	if mutate != nil {
		mutate(listing)
	}
	require.NoError(t, repo.Create(context.Background(), listing))
	return listing
}

func ptr[T any](v T) *T {
	return &v
}

// at devolve instantes crescentes para ordenar registros de forma determinística
func at(minutes int) time.Time {
	return time.Date(2024, 1, 1, 12, minutes, 0, 0, time.UTC)
}
