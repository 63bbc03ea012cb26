// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"chirp/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// seedPassword is the login password of every seeded account.
const seedPassword = "password123"

var seedHashtags = []string{
	"golang", "coffee", "music", "travel", "gaming", "fitness",
	"startups", "art", "books", "food",
}

// CreateUser persists a user with a deterministic password and fake profile.
func (f *Factory) CreateUser(i int) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	username := fmt.Sprintf("%s%d", strings.ToLower(gofakeit.FirstName()), i)
	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: string(hashed),
		Bio:      gofakeit.Sentence(8),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// PostContent generates post text that sometimes carries hashtags and
// mentions of other seeded users.
func (f *Factory) PostContent(users []*models.User) string {
	content := gofakeit.Sentence(6 + f.rand.Intn(10))
	if len(content) > 200 {
		content = content[:200]
	}

	if f.rand.Intn(100) < 40 {
		content += " #" + seedHashtags[f.rand.Intn(len(seedHashtags))]
	}
	if len(users) > 0 && f.rand.Intn(100) < 15 {
		content += " @" + users[f.rand.Intn(len(users))].Username
	}
	return content
}

// SpreadCreatedAt moves a post's timestamp back a random amount within
// maxDays so seeded timelines are not a single burst.
func (f *Factory) SpreadCreatedAt(post *models.Post, maxDays int) error {
	if maxDays <= 0 {
		maxDays = 14
	}
	back := time.Duration(f.rand.Intn(maxDays*24*60)) * time.Minute
	return f.db.Model(post).UpdateColumn("created_at", time.Now().Add(-back)).Error
}
