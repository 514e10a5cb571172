package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	activityService "cruddur/internal/activities/service"
	activityStore "cruddur/internal/activities/store"
	messageService "cruddur/internal/messages/service"
	messageStore "cruddur/internal/messages/store"
	"cruddur/internal/platform/config"
	"cruddur/internal/platform/postgres"
	"cruddur/internal/seed"
	userService "cruddur/internal/users/service"
	userStore "cruddur/internal/users/store"
)

type stores struct {
	users      userService.Store
	activities activityService.Store
	messages   messageService.Store
	health     func(ctx context.Context) error
	close      func()
}

// openStores uses PostgreSQL when CONNECTION_URL is set and otherwise serves
// seeded demo data from memory.
func openStores(ctx context.Context, cfg config.Server, log *slog.Logger) (*stores, error) {
	if cfg.DatabaseURL == "" {
		users := userStore.NewInMemoryStore()
		activities := activityStore.NewInMemoryStore()
		messages := messageStore.NewInMemoryStore()
		if err := seed.Load(ctx, users, activities, messages, time.Now()); err != nil {
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
		log.Warn("CONNECTION_URL not set, serving seeded in-memory data")
		return &stores{
			users:      users,
			activities: activities,
			messages:   messages,
			close:      func() {},
		}, nil
	}

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info("using postgres stores")
	return &stores{
		users:      userStore.NewPostgresStore(db),
		activities: activityStore.NewPostgresStore(db),
		messages:   messageStore.NewPostgresStore(db),
		health:     db.PingContext,
		close:      func() { _ = db.Close() },
	}, nil
}
