// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"university_portal_backend/internal/academics"
	"university_portal_backend/internal/account"
	"university_portal_backend/internal/app"
	"university_portal_backend/internal/catalog"
	"university_portal_backend/internal/config"
	"university_portal_backend/internal/contact"
	"university_portal_backend/internal/jobs"
	"university_portal_backend/internal/media"
	"university_portal_backend/internal/navigation"
	"university_portal_backend/internal/notification"
	"university_portal_backend/internal/search"
	"university_portal_backend/internal/seed"
	"university_portal_backend/internal/session"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		provideLogger,
		provideDatabase,
		seed.Load,

		// Search catalog (shared, read-only)
		catalog.NewGORMRepository,
		catalog.NewService,
		provideCatalog,

		// Programmes
		academics.NewGORMRepository,
		academics.NewService,
		provideAcademicsHandler,

		// Sessions
		provideSessionFactory,
		provideSessionStore,
		wire.Bind(new(jobs.IdleSweeper), new(*session.Store)),
		jobs.NewSessionSweepJob,

		// Handlers
		search.NewHandler,
		notification.NewHandler,
		contact.NewHandler,
		account.NewHandler,
		provideMediaResolver,
		media.NewHandler,
		navigation.NewHandler,
		wire.Struct(new(app.Handlers), "*"),

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
