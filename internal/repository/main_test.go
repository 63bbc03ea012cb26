package repository

import (
	"fmt"
	"testing"
	"time"

	"chirp/internal/database"
	"chirp/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory SQLite database migrated with the full
// model set. Each test gets its own database, so no cross-test cleanup is
// needed.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Named in-memory database with shared cache so every pooled
	// connection sees the same schema.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

var testUserSeq int

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	testUserSeq++
	u := &models.User{
		Username: fmt.Sprintf("user%d", testUserSeq),
		Email:    fmt.Sprintf("user%d@example.com", testUserSeq),
		Password: "hashed",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createTestPost(t *testing.T, db *gorm.DB, userID uint, content string, createdAt time.Time) *models.Post {
	t.Helper()

	p := &models.Post{UserID: userID, Content: content}
	require.NoError(t, db.Create(p).Error)
	require.NoError(t, db.Model(p).UpdateColumn("created_at", createdAt).Error)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", userID).
		Update("posts_count", gorm.Expr("posts_count + 1")).Error)
	p.CreatedAt = createdAt
	return p
}
