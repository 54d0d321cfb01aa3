// Package testutil holds shared helpers for package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/evanmmo/vod-dashboard/config"
	"github.com/evanmmo/vod-dashboard/models"
	"github.com/evanmmo/vod-dashboard/utils"
)

const (
	JWTSecret    = "test-secret-do-not-use"
	UserPassword = "secret123"
)

// NewTestDB opens a migrated in-memory SQLite database. A single connection keeps
// the in-memory database alive and serializes concurrent callers.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, config.Migrate(db))
	return db
}

// CreateUser inserts a user with the given role; active=false creates a suspended account.
func CreateUser(t testing.TB, db *gorm.DB, email string, role models.UserRole, active bool) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(UserPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		FullName: "Test " + string(role),
		Email:    email,
		Password: string(hashed),
		Role:     role,
		Status:   &active,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// TokenFor signs a session token for user with the test secret.
func TokenFor(t testing.TB, user *models.User) string {
	t.Helper()

	utils.ConfigureJWT(JWTSecret, time.Hour)
	token, err := utils.GenerateToken(user.ID.String(), string(user.Role))
	require.NoError(t, err)
	return token
}

// Date returns midnight UTC of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
