// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"bridgex_waitlist/internal/admin"
	"bridgex_waitlist/internal/app"
	"bridgex_waitlist/internal/auth"
	"bridgex_waitlist/internal/config"
	"bridgex_waitlist/internal/contact"
	"bridgex_waitlist/internal/jobs"
	"bridgex_waitlist/internal/platform/logger"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		provideDatabase,

		// Tokens
		auth.NewJWTService,
		auth.NewTokenBlocklist,

		// Admin accounts
		admin.NewGORMRepository,
		admin.NewService,
		wire.Bind(new(admin.Service), new(*admin.ServiceImplementation)),
		admin.NewHandler,

		// Waitlist contacts
		contact.NewGORMRepository,
		contact.NewService,
		wire.Bind(new(contact.Service), new(*contact.ServiceImplementation)),
		wire.Bind(new(jobs.StatsSource), new(*contact.ServiceImplementation)),
		contact.NewHandler,
		jobs.NewWaitlistDigestJob,
		provideSignupLimiter,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
