// Package db opens the MySQL connection used by every repository.
package db

import (
	"fmt"
	"log"
	"time"

	gmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"user_backend/internal/feature/users/domain/entity"
	"user_backend/internal/platform/config"
)

// Open connects to MySQL with a retry loop, bounds the connection pool and
// optionally runs migrations. It terminates the process when the database
// stays unreachable past the deadline.
func Open(cfg config.Config) *gorm.DB {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
		cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name)

	var (
		db  *gorm.DB
		err error
	)

	deadline := time.Now().Add(60 * time.Second)
	for {
		db, err = gorm.Open(gmysql.Open(dsn), &gorm.Config{})
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			log.Fatalf("DB connect failed after 60s: %v", err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}

	// Bounded pool: callers queue on exhaustion instead of failing.
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to access connection pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if cfg.RunMigrations {
		if err := db.AutoMigrate(&entity.User{}); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
