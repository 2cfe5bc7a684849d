package repomanager

import (
	"context"

	"github.com/dmitrijs2005/dailyroutine/internal/server/config"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/activities"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/events"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/invites"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/tags"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/users"
)

// InMemoryRepositoryManager keeps everything in process memory. Used by
// tests and by the memory driver for local development.
type InMemoryRepositoryManager struct {
	users         *users.MemoryRepository
	tags          tags.Repository
	tasks         *tasks.MemoryRepository
	events        *events.MemoryRepository
	activities    *activities.MemoryRepository
	invites       *invites.MemoryRepository
	refreshTokens *refreshtokens.MemoryRepository
}

func NewMemoryRepositoryManager(tagStorage string) *InMemoryRepositoryManager {
	m := &InMemoryRepositoryManager{
		users:         users.NewMemoryRepository(),
		tasks:         tasks.NewMemoryRepository(),
		events:        events.NewMemoryRepository(),
		activities:    activities.NewMemoryRepository(),
		invites:       invites.NewMemoryRepository(),
		refreshTokens: refreshtokens.NewMemoryRepository(),
	}
	if tagStorage == config.TagStorageCollection {
		m.tags = tags.NewMemoryRepository()
	} else {
		m.tags = tags.NewEmbeddedRepository(m.users)
	}
	return m
}

func (m *InMemoryRepositoryManager) Users() users.Repository                 { return m.users }
func (m *InMemoryRepositoryManager) Tags() tags.Repository                   { return m.tags }
func (m *InMemoryRepositoryManager) Tasks() tasks.Repository                 { return m.tasks }
func (m *InMemoryRepositoryManager) Events() events.Repository               { return m.events }
func (m *InMemoryRepositoryManager) Activities() activities.Repository       { return m.activities }
func (m *InMemoryRepositoryManager) Invites() invites.Repository             { return m.invites }
func (m *InMemoryRepositoryManager) RefreshTokens() refreshtokens.Repository { return m.refreshTokens }

func (m *InMemoryRepositoryManager) WithinTx(ctx context.Context, fn func(ctx context.Context, m RepositoryManager) error) error {
	return fn(ctx, m)
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error { return nil }

func (m *InMemoryRepositoryManager) Close(ctx context.Context) error { return nil }
