package main

import (
	"context"
	"log"
	"time"

	"github.com/gracepointe/engage/internal/bootstrap"
	"github.com/gracepointe/engage/internal/config"
	"github.com/gracepointe/engage/internal/server"
	"github.com/gracepointe/engage/pkg/database"
	"github.com/gracepointe/engage/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger := logger.New(logger.Options{
		Level:    cfg.LogLevel,
		FilePath: cfg.LogPath,
	})
	defer zapLogger.Sync()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("database connection failed", zap.Error(err))
	}
	defer database.Close(db)

	if err := bootstrap.Migrate(db); err != nil {
		zapLogger.Fatal("migration failed", zap.Error(err))
	}

	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedAdminUser(db, cfg.EmergencyAdminEmail, cfg.EmergencyAdminPassword); err != nil {
			zapLogger.Fatal("failed to seed admin user", zap.Error(err))
		}
	}

	redisClient := connectRedis(cfg.RedisURL, zapLogger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	srv := server.NewServer(cfg, db, redisClient, zapLogger)

	zapLogger.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
	if err := srv.Run(); err != nil {
		zapLogger.Fatal("server exited", zap.Error(err))
	}
}

// connectRedis returns nil when Redis is not configured or unreachable; the
// services that use it all carry in-process fallbacks.
func connectRedis(url string, zapLogger *zap.Logger) *redis.Client {
	if url == "" {
		zapLogger.Info("redis not configured, using in-process fallbacks")
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		zapLogger.Warn("invalid REDIS_URL, using in-process fallbacks", zap.Error(err))
		return nil
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		zapLogger.Warn("redis unreachable, using in-process fallbacks", zap.Error(err))
		client.Close()
		return nil
	}

	return client
}
