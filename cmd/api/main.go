package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"movieflix/internal/config"
	"movieflix/internal/db"
	apihttp "movieflix/internal/http"
	"movieflix/internal/repository"
	"movieflix/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	movieRepo := repository.NewPgMovieRepository(pool)

	var denylist service.TokenDenylist
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory denylist", zap.Error(err))
		} else {
			denylist = service.NewRedisTokenDenylist(redisClient)
		}
		cancel()
	}

	jwtSvc := service.NewJWTServiceWithDenylist(
		cfg.JWTSecret,
		time.Duration(cfg.JWTTTLHours)*time.Hour,
		denylist,
	)

	userSvc := service.NewUserService(logger, userRepo)
	userHandler := apihttp.NewUserHandler(logger, userSvc, jwtSvc)
	movieHandler := apihttp.NewMovieHandler(logger, movieRepo)
	router := apihttp.NewRouter(logger, userHandler, movieHandler, jwtSvc, userSvc)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
