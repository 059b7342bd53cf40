package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	dbadapter "postsapi/internal/adapters/database"
	"postsapi/internal/adapters/httpapi"
	redisadapter "postsapi/internal/adapters/redis"
	"postsapi/internal/config"
	authapp "postsapi/internal/core/auth/service"
	postapp "postsapi/internal/core/post/service"
	userapp "postsapi/internal/core/user/service"
	voteapp "postsapi/internal/core/vote/service"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// .env has to be in the environment before APP_ENV picks the logger
	dotenv := config.LoadDotenv()

	logger, err := config.InitLogger(os.Getenv("APP_ENV"))
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer logger.Sync()
	if !dotenv {
		logger.Info("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// اتصال به دیتابیس و اجرای مایگریشن‌ها
	db, err := config.OpenDB(cfg.Database)
	if err != nil {
		logger.Fatal("Error connecting to the database", zap.Error(err))
	}
	if err := dbadapter.Migrate(db); err != nil {
		logger.Fatal("Error during migrations", zap.Error(err))
	}
	logger.Info("Database migrations completed")

	// اتصال به Redis
	rdb, err := config.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal("Error connecting to Redis", zap.Error(err))
	}

	// بستن منابع بعد از اتمام کار سرور
	defer closeResources(logger, db, rdb)

	userRepo := dbadapter.NewUserRepositoryDatabase(db)
	postRepo := dbadapter.NewPostRepositoryDatabase(db)
	voteRepo := dbadapter.NewVoteRepositoryDatabase(db)
	denylist := redisadapter.NewTokenDenylistRedis(rdb)
	limiter := redisadapter.NewRateLimiterRedis(rdb, cfg.RateLimitRequests, cfg.RateLimitWindow)

	userSvc := userapp.NewUserService(userRepo, logger)
	authSvc := authapp.NewAuthService(userRepo, denylist, cfg.JWTSecret, cfg.AccessTokenTTL, logger)
	postSvc := postapp.NewPostService(postRepo, logger)
	voteSvc := voteapp.NewVoteService(voteRepo, postRepo, logger)

	health := httpapi.HealthChecks{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}
	r := httpapi.SetupRoutes(userSvc, authSvc, postSvc, voteSvc, limiter, health, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("App is running...", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// closeResources بستن اتصالات به Redis و دیتابیس
func closeResources(logger *zap.Logger, db *gorm.DB, rdb *redis.Client) {
	if err := rdb.Close(); err != nil {
		logger.Error("Error closing Redis connection", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Error getting raw DB", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Error closing database connection", zap.Error(err))
	}
}
