// Package repomanager vends the repositories of one document store.
// New picks the backend (Postgres, MongoDB or memory) from the config.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/dailyroutine/internal/server/config"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/activities"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/events"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/invites"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/tags"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users() users.Repository
	Tags() tags.Repository
	Tasks() tasks.Repository
	Events() events.Repository
	Activities() activities.Repository
	Invites() invites.Repository
	RefreshTokens() refreshtokens.Repository

	// WithinTx runs fn with a manager whose repositories share one
	// transaction where the backend supports it. Backends without
	// multi-document transactions run fn directly.
	WithinTx(ctx context.Context, fn func(ctx context.Context, m RepositoryManager) error) error

	// RunMigrations prepares the schema: goose migrations for Postgres,
	// index creation for MongoDB.
	RunMigrations(ctx context.Context) error
	Close(ctx context.Context) error
}

// New connects to the store selected by cfg.StoreDriver.
func New(ctx context.Context, cfg *config.Config) (RepositoryManager, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		m, err := NewPostgresRepositoryManager(cfg.DatabaseDSN, cfg.TagStorage)
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.DriverMongo:
		m, err := NewMongoRepositoryManager(ctx, cfg.DatabaseDSN, cfg.MongoDatabase, cfg.TagStorage)
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.DriverMemory:
		return NewMemoryRepositoryManager(cfg.TagStorage), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
