package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/dailyroutine/internal/dbx"
	"github.com/dmitrijs2005/dailyroutine/internal/server/config"
	"github.com/dmitrijs2005/dailyroutine/internal/server/migrations"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/activities"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/events"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/invites"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/tags"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories bound
// either to the pool or, inside WithinTx, to a single transaction.
type PostgresRepositoryManager struct {
	db         *sql.DB
	q          dbx.DBTX
	tagStorage string
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// NewPostgresRepositoryManager opens a pgx connection pool for dsn.
func NewPostgresRepositoryManager(dsn, tagStorage string) (*PostgresRepositoryManager, error) {
	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	return newPostgresManager(db, tagStorage), nil
}

func newPostgresManager(db *sql.DB, tagStorage string) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{db: db, q: db, tagStorage: tagStorage}
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return users.NewPostgresRepository(m.q)
}

// Tags honours the configured strategy.
func (m *PostgresRepositoryManager) Tags() tags.Repository {
	if m.tagStorage == config.TagStorageCollection {
		return tags.NewPostgresRepository(m.q)
	}
	return tags.NewEmbeddedRepository(users.NewPostgresRepository(m.q))
}

func (m *PostgresRepositoryManager) Tasks() tasks.Repository {
	return tasks.NewPostgresRepository(m.q)
}

func (m *PostgresRepositoryManager) Events() events.Repository {
	return events.NewPostgresRepository(m.q)
}

func (m *PostgresRepositoryManager) Activities() activities.Repository {
	return activities.NewPostgresRepository(m.q)
}

func (m *PostgresRepositoryManager) Invites() invites.Repository {
	return invites.NewPostgresRepository(m.q)
}

func (m *PostgresRepositoryManager) RefreshTokens() refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(m.q)
}

func (m *PostgresRepositoryManager) WithinTx(ctx context.Context, fn func(ctx context.Context, m RepositoryManager) error) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &PostgresRepositoryManager{db: m.db, q: tx, tagStorage: m.tagStorage})
	})
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return err
	}
	return nil
}

func (m *PostgresRepositoryManager) Close(ctx context.Context) error {
	return m.db.Close()
}
