package store

import (
	"context"
	"testing"

	"secretpages/backend/internal/config"
	"secretpages/backend/internal/database"
	"secretpages/backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const testDSN = "host=localhost user=postgres password=postgres dbname=secretpages_test port=5432 sslmode=disable TimeZone=UTC"

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := database.Connect(testDSN)
	if err != nil {
		t.Skipf("skip: db not available: %v", err)
	}
	if err := database.Migrate(gdb); err != nil {
		t.Skipf("skip: migrate failed: %v", err)
	}
	return gdb
}

func testConfig() *config.Config {
	return &config.Config{
		Port:                  "0",
		Env:                   "dev",
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 15,
		RefreshTokenTTLDays:   7,
	}
}

// newTestUser inserts a user with a unique email so tests stay isolated on a
// shared database.
func newTestUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{
		Email:        "user-" + uuid.New().String() + "@example.com",
		PasswordHash: "x",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() {
		db.Where("sender_id = ? OR receiver_id = ?", user.ID, user.ID).Delete(&models.FriendRequest{})
		db.Where("user_id = ?", user.ID).Delete(&models.SecretMessage{})
		db.Where("user_id = ?", user.ID).Delete(&models.RefreshToken{})
		db.Delete(&models.User{}, "id = ?", user.ID)
	})
	return user
}

func ctx() context.Context { return context.Background() }
