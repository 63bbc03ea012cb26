package server

import (
	"fmt"
	"net/http"
	"testing"

	"chirp/internal/cache"
	"chirp/internal/config"
	"chirp/internal/database"
	"chirp/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestServerWithCache is newTestServer with a live Redis cache in front
// of the feed, backed by miniredis.
func newTestServerWithCache(t *testing.T) (*fiber.App, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	cache.InitRedis(mr.Addr())
	t.Cleanup(cache.Close)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret: "test-secret",
		Env:       "test",
	}
	s, err := NewServerWithDeps(cfg, db, cache.GetClient())
	require.NoError(t, err)

	app := fiber.New()
	s.SetupRoutes(app)
	return app, mr
}

func TestFeedCache_InvalidatedWhenFollowedUserPosts(t *testing.T) {
	app, mr := newTestServerWithCache(t)

	aliceID, aliceToken := signupUser(t, app, "mallory")
	bobID, bobToken := signupUser(t, app, "nadia")

	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/users/%d/follow", bobID), aliceToken, nil)
	_ = resp.Body.Close()
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Warm Alice's cached first page while Bob has no posts yet.
	resp = doJSON(t, app, http.MethodGet, "/api/feed", aliceToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var feed struct {
		Posts []models.Post `json:"posts"`
	}
	decodeBody(t, resp, &feed)
	require.Empty(t, feed.Posts)
	require.True(t, mr.Exists(cache.FeedKey(aliceID)), "expected warmed feed cache entry")

	// Bob posting drops the cached entries of Bob and every follower.
	resp = doJSON(t, app, http.MethodPost, "/api/posts/", bobToken, fiber.Map{"content": "fresh off the press"})
	_ = resp.Body.Close()
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.False(t, mr.Exists(cache.FeedKey(aliceID)), "follower feed entry should be invalidated")

	// The next read recomputes instead of serving the stale cached page.
	resp = doJSON(t, app, http.MethodGet, "/api/feed", aliceToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &feed)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, "fresh off the press", feed.Posts[0].Content)

	// And the recomputed page is cached again for the page after this one.
	assert.True(t, mr.Exists(cache.FeedKey(aliceID)))
}
