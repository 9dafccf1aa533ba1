package main

import (
	"context"
	"log"

	"university_portal_backend/internal/academics"
	"university_portal_backend/internal/account"
	"university_portal_backend/internal/catalog"
	"university_portal_backend/internal/config"
	"university_portal_backend/internal/media"
	"university_portal_backend/internal/notification"
	"university_portal_backend/internal/platform/database"
	"university_portal_backend/internal/platform/logger"
	"university_portal_backend/internal/seed"
	"university_portal_backend/internal/session"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func provideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	l, err := logger.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := l.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
	}
	return l, cleanup, nil
}

func provideDatabase(cfg *config.Config, logger *zap.Logger) (*gorm.DB, func(), error) {
	db, err := database.NewGORM(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		logger.Info("Executing cleanup tasks...")
		database.CloseGORMDB(db)
	}
	return db, cleanup, nil
}

// provideCatalog seeds the catalog tables and loads the read-only catalog every session shares.
func provideCatalog(service catalog.Service, data *seed.Data) (*catalog.Catalog, error) {
	ctx := context.Background()
	if err := service.Seed(ctx, data); err != nil {
		return nil, err
	}
	return service.Load(ctx)
}

// provideAcademicsHandler seeds the programme table before its routes go live.
func provideAcademicsHandler(service academics.Service, data *seed.Data, logger *zap.Logger) (*academics.Handler, error) {
	if err := service.Seed(context.Background(), data.Programs); err != nil {
		return nil, err
	}
	return academics.NewHandler(service, logger.Named("academics")), nil
}

func provideSessionFactory(cat *catalog.Catalog, data *seed.Data, cfg *config.Config, logger *zap.Logger) (*session.Factory, error) {
	notifications, err := notification.FromSeed(data.Notifications)
	if err != nil {
		return nil, err
	}
	options, err := account.OptionsFromSeed(data.Preferences)
	if err != nil {
		return nil, err
	}
	profile, err := account.ProfileFromSeed(data.Profile)
	if err != nil {
		return nil, err
	}
	return session.NewFactory(cat, notifications, options, cfg.ContactSubmitDelay, logger,
		session.WithProfile(profile, cfg.ProfileSavedNotice))
}

func provideSessionStore(factory *session.Factory, cfg *config.Config, logger *zap.Logger) (*session.Store, func(), error) {
	store, err := session.NewStore(factory, cfg.SessionMaxActive, cfg.SessionIdleTimeout, logger)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

func provideMediaResolver(cfg *config.Config, logger *zap.Logger) (*media.Resolver, error) {
	return media.NewResolver(cfg.MediaRoot, cfg.ImageFallbackURL, cfg.ImageCheckTimeout, logger,
		media.WithAllowedHosts(cfg.ImageCheckAllowedHosts...))
}
