package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gracepointe/engage/internal/config"
	"github.com/gracepointe/engage/internal/handler"
	"github.com/gracepointe/engage/internal/mail"
	"github.com/gracepointe/engage/internal/middleware"
	"github.com/gracepointe/engage/internal/repository"
	"github.com/gracepointe/engage/internal/service"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	engine *gin.Engine
	cfg    *config.Config
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) *Server {
	userRepo := repository.NewUserRepository(db)
	rewardRepo := repository.NewRewardRepository(db)
	dailyRepo := repository.NewDailyRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	eventRepo := repository.NewEventRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	rewardSvc := service.NewRewardService(rewardRepo, logger)

	codes := service.NewResetCodeStore(redisClient)
	mailer := mail.NewMailgunMailer(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailFrom)

	authSvc := service.NewAuthService(userRepo, rewardSvc, codes, mailer, service.AuthConfig{
		Secret:                 cfg.JWTSecret,
		TokenTTL:               cfg.JWTTTL,
		EmergencyAdminEmail:    cfg.EmergencyAdminEmail,
		EmergencyAdminPassword: cfg.EmergencyAdminPassword,
	}, logger)
	authHandler := handler.NewAuthHandler(authSvc)

	verseFetcher := service.NewHTTPVerseFetcher(cfg.VerseAPIURL)
	dailySvc := service.NewDailyService(dailyRepo, rewardSvc, verseFetcher, redisClient, logger)
	dailyHandler := handler.NewDailyHandler(dailySvc)

	attendanceSvc := service.NewAttendanceService(attendanceRepo, rewardSvc, logger)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)

	eventSvc := service.NewEventService(eventRepo)
	eventHandler := handler.NewEventHandler(eventSvc)

	submissionSvc := service.NewSubmissionService(submissionRepo, rewardSvc)
	submissionHandler := handler.NewSubmissionHandler(submissionSvc)

	leaderboardSvc := service.NewLeaderboardService(userRepo)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardSvc)

	adminSvc := service.NewAdminService(userRepo, logger)
	adminHandler := handler.NewAdminHandler(adminSvc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	setupCORS(router, cfg.AllowedOrigins)

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret, cfg.EmergencyAdminEmail)

	api := router.Group("/api")

	api.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "timestamp": time.Now().UTC()})
	})

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}
	api.GET("/daily/verse", dailyHandler.GetVerse)
	api.GET("/events", eventHandler.List)
	api.GET("/leaderboard", leaderboardHandler.Get)

	// Protected routes
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/auth/me", authHandler.Me)

		protected.POST("/attendance", attendanceHandler.Mark)
		protected.GET("/attendance", attendanceHandler.History)

		protected.GET("/daily/quiz", dailyHandler.GetQuiz)
		protected.POST("/daily/quiz/submit", dailyHandler.SubmitQuiz)

		protected.POST("/submissions", submissionHandler.Create)

		// Admin routes
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.GET("/users", adminHandler.ListUsers)
			adminGroup.POST("/promote", adminHandler.Promote)
			adminGroup.POST("/quiz", dailyHandler.CreateQuiz)
			adminGroup.POST("/events", eventHandler.Create)
			adminGroup.DELETE("/events/:id", eventHandler.Delete)
			adminGroup.GET("/submissions", submissionHandler.ListAll)
		}
	}

	return &Server{
		engine: router,
		cfg:    cfg,
	}
}

func (s *Server) Run() error {
	return s.engine.Run(":" + s.cfg.Port)
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
