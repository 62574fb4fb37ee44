// File: cmd/server/providers.go
package main

import (
	"log"

	"bridgex_waitlist/internal/config"
	"bridgex_waitlist/internal/middleware"
	"bridgex_waitlist/internal/platform/database"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// provideDatabase opens the database and returns a cleanup that closes it and flushes the logger.
func provideDatabase(cfg *config.Config, logger *zap.Logger) (*gorm.DB, func(), error) {
	db, err := database.NewGORM(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		logger.Info("Executing cleanup tasks...")
		database.CloseGORMDB(db, logger)
		if err := logger.Sync(); err != nil {
			log.Printf("WARN: Failed to sync logger during cleanup: %v", err)
		}
	}
	return db, cleanup, nil
}

func provideSignupLimiter(cfg *config.Config) *middleware.IPRateLimiter {
	return middleware.NewIPRateLimiter(cfg.SignupRateLimitPerMinute, cfg.SignupRateBurst)
}
