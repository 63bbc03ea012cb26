package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"chirp/internal/models"
	"chirp/internal/repository"
	"chirp/internal/service"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	MaxDays     int
	ShouldClean bool
}

// Run seeds users, a follow mesh, posts and engagement. Edges are created
// through the repositories so counters stay consistent with the rows they
// mirror.
func Run(db *gorm.DB, opts Options) error {
	ctx := context.Background()

	if opts.NumUsers <= 0 {
		opts.NumUsers = 20
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = opts.NumUsers * 5
	}

	if opts.ShouldClean {
		if err := clean(db); err != nil {
			return fmt.Errorf("clean: %w", err)
		}
	}

	factory := NewFactory(db)
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	postRepo := repository.NewPostRepository(db)
	hashtagRepo := repository.NewHashtagRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	feedService := service.NewFeedService(postRepo, followRepo)
	postService := service.NewPostService(postRepo, userRepo, hashtagRepo,
		notificationRepo, feedService, nil)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := factory.CreateUser(i)
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("Seeded %d users (password %q)", len(users), seedPassword)

	// Follow mesh: every user follows a handful of others.
	for _, user := range users {
		for n := 0; n < 3+rand.Intn(5); n++ {
			target := users[rand.Intn(len(users))]
			if target.ID == user.ID {
				continue
			}
			if _, err := followRepo.Create(ctx, user.ID, target.ID); err != nil {
				return fmt.Errorf("create follow: %w", err)
			}
		}
	}

	var posts []*models.Post
	for i := 0; i < opts.NumPosts; i++ {
		author := users[rand.Intn(len(users))]
		post, err := postService.CreatePost(ctx, author.ID, factory.PostContent(users), nil)
		if err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		if err := factory.SpreadCreatedAt(post, opts.MaxDays); err != nil {
			return fmt.Errorf("spread created_at: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("Seeded %d posts", len(posts))

	// Engagement: likes, retweets, replies.
	for _, post := range posts {
		for n := 0; n < rand.Intn(5); n++ {
			if _, err := postRepo.Like(ctx, users[rand.Intn(len(users))].ID, post.ID); err != nil {
				return fmt.Errorf("create like: %w", err)
			}
		}
		if rand.Intn(100) < 20 {
			actor := users[rand.Intn(len(users))]
			if actor.ID != post.UserID {
				if _, _, err := postRepo.Retweet(ctx, actor.ID, post); err != nil {
					return fmt.Errorf("create retweet: %w", err)
				}
			}
		}
		if rand.Intn(100) < 30 {
			author := users[rand.Intn(len(users))]
			if _, err := postService.CreatePost(ctx, author.ID, factory.PostContent(users), &post.ID); err != nil {
				return fmt.Errorf("create reply: %w", err)
			}
		}
	}

	log.Println("Seeding complete")
	return nil
}

func clean(db *gorm.DB) error {
	tables := []string{
		"notifications", "mentions", "post_hashtags", "hashtags",
		"retweets", "likes", "follows", "posts", "users",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}
