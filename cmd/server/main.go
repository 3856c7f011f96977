package main

import (
	"context"
	"log"
	"time"

	"user_backend/internal/app/router"
	"user_backend/internal/feature/users/adapters"
	userhandler "user_backend/internal/feature/users/transport/handler"
	"user_backend/internal/feature/users/usecase"
	"user_backend/internal/platform/config"
	infradb "user_backend/internal/platform/db"
	"user_backend/internal/platform/middleware"
	"user_backend/internal/platform/password"
	"user_backend/internal/platform/token"
	"user_backend/internal/platform/validation"
	"user_backend/internal/shared/ratelimiter"
)

func main() {
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			log.Fatal("JWT_SECRET must be set in production")
		}
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	// db
	db := infradb.Open(cfg)

	// Custom validation rules must be installed before any binding happens.
	if err := validation.Register(); err != nil {
		log.Fatalf("failed to register validation rules: %v", err)
	}

	// Platform services
	tokens := token.NewService(cfg.JWTSecret, cfg.JWTExpire)
	hasher := password.NewHasher(cfg.BcryptCost)

	// Repository
	userRepo := adapters.NewUserMySQL(db)

	// Usecase
	userUC := usecase.NewUserUsecase(userRepo, hasher, tokens)

	if cfg.SeedAdmin {
		if err := userUC.SeedDefaultAdmin(context.Background(), "admin@system.com", "Admin@123"); err != nil {
			log.Fatalf("failed to seed default admin: %v", err)
		}
		log.Println("default admin ensured (admin@system.com)")
	}

	// Handler
	userH := userhandler.NewUserHandler(userUC, !cfg.IsProduction())

	r := router.New(router.Deps{
		Users:        userH,
		Verifier:     tokens,
		UserLoader:   userRepo,
		Maintenance:  middleware.NewMaintenanceFlag(),
		LoginLimiter: ratelimiter.NewLimiter(10, time.Minute),
		Env:          cfg.Env,
		CORSOrigins:  cfg.CORSOrigins,
	})

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
