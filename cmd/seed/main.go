// Seeds the development database with fake users, posts and engagement.
//
// Usage:
//
//	go run ./cmd/seed -users 30 -posts 150 -clean
package main

import (
	"flag"
	"log"

	"chirp/internal/config"
	"chirp/internal/database"
	"chirp/internal/seed"
)

func main() {
	users := flag.Int("users", 20, "number of users to create")
	posts := flag.Int("posts", 100, "number of posts to create")
	days := flag.Int("days", 14, "spread post timestamps over this many days")
	clean := flag.Bool("clean", false, "delete existing rows first")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Env == "production" || cfg.Env == "prod" {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db, seed.Options{
		NumUsers:    *users,
		NumPosts:    *posts,
		MaxDays:     *days,
		ShouldClean: *clean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
