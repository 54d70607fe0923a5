package server

import (
	"log"
	"net/http"
	"strings"

	"github.com/ajstars1/0unveiled-leaderboard/internal/config"
	"github.com/ajstars1/0unveiled-leaderboard/internal/handler"
	"github.com/ajstars1/0unveiled-leaderboard/internal/middleware"
	"github.com/ajstars1/0unveiled-leaderboard/internal/repository"
	"github.com/ajstars1/0unveiled-leaderboard/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	Leaderboard service.LeaderboardService
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	itemRepo := repository.NewItemRepository(db)
	leaderboardRepo := repository.NewLeaderboardRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	var meiliClient meilisearch.ServiceManager
	if cfg.MeiliSearchHost != "" {
		host := cfg.MeiliSearchHost
		if !strings.HasPrefix(host, "http") {
			host = "http://" + host + ":7700"
		}
		meiliClient = meilisearch.New(host, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	}
	searchSvc := service.NewMeiliSearchService(meiliClient)

	mailer := service.NewResendMailer(cfg.ResendAPIKey, cfg.EmailFrom, cfg.FrontendURL+"/leaderboard")
	if mailer == nil {
		log.Println("WARNING: RESEND_API_KEY is not set, leaderboard emails disabled")
	}

	notificationSvc := service.NewNotificationService(notificationRepo, userRepo, mailer, redisClient)
	dispatcher := service.NewDispatcher(notificationSvc, cfg.NotifyBatchSize, cfg.NotifyBatchPause)

	leaderboardSvc := service.NewLeaderboardService(leaderboardRepo, userRepo, itemRepo, dispatcher, searchSvc, redisClient)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardSvc, searchSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc, redisClient)

	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()
	// The trigger endpoint must answer 405, not 404, to non-POST methods.
	engine.HandleMethodNotAllowed = true

	engine.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "leaderboard-service"})
	})

	api := engine.Group("/api")

	// Scheduler trigger: shared secret, not user auth.
	api.POST("/leaderboard/update", middleware.RequireCronSecret(cfg.CronSecret), leaderboardHandler.Update)

	// Public reads.
	api.GET("/leaderboard", leaderboardHandler.GetLeaderboard)
	api.GET("/leaderboard/search", leaderboardHandler.Search)

	// User-scoped reads.
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)
	authed := api.Group("")
	authed.Use(authMiddleware.RequireAuth())
	{
		authed.GET("/leaderboard/me", leaderboardHandler.GetMyRanks)

		authed.GET("/notifications", notificationHandler.GetNotifications)
		authed.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		authed.PATCH("/notifications/:id/read", notificationHandler.MarkAsRead)
		authed.PATCH("/notifications/read-all", notificationHandler.MarkAllAsRead)
		authed.GET("/notifications/ws", notificationHandler.HandleWebSocket)
	}

	return &Server{
		engine:      engine,
		Leaderboard: leaderboardSvc,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}
