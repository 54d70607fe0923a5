package main

import (
	"context"
	"log"

	"github.com/ajstars1/0unveiled-leaderboard/internal/config"
	"github.com/ajstars1/0unveiled-leaderboard/internal/model"
	"github.com/ajstars1/0unveiled-leaderboard/internal/scheduler"
	"github.com/ajstars1/0unveiled-leaderboard/internal/server"
	"github.com/ajstars1/0unveiled-leaderboard/pkg/database"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Printf("WARNING: redis unavailable, continuing without cache/pubsub: %v", err)
			redisClient = nil
		}
	}

	srv := server.NewServer(cfg, db, redisClient)

	if cfg.LeaderboardCron != "" {
		sched := scheduler.New(srv.Leaderboard, cfg.LeaderboardCron)
		if err := sched.Start(context.Background()); err != nil {
			log.Fatalf("failed to start scheduler: %v", err)
		}
		defer sched.Stop()
	}

	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.ShowcasedItem{},
		&model.LeaderboardScore{},
		&model.Notification{},
	)
}
