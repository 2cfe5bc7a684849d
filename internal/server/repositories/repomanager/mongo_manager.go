package repomanager

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/dailyroutine/internal/server/config"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/activities"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/events"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/invites"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/tags"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepositoryManager vends MongoDB-backed repositories.
type MongoRepositoryManager struct {
	client     *mongo.Client
	db         *mongo.Database
	tagStorage string
}

// NewMongoRepositoryManager connects to uri and checks the server is reachable.
func NewMongoRepositoryManager(ctx context.Context, uri, database, tagStorage string) (*MongoRepositoryManager, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect error: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping error: %w", err)
	}

	return &MongoRepositoryManager{client: client, db: client.Database(database), tagStorage: tagStorage}, nil
}

func (m *MongoRepositoryManager) Users() users.Repository {
	return users.NewMongoRepository(m.db)
}

func (m *MongoRepositoryManager) Tags() tags.Repository {
	if m.tagStorage == config.TagStorageCollection {
		return tags.NewMongoRepository(m.db, func() int64 { return time.Now().UnixNano() })
	}
	return tags.NewEmbeddedRepository(users.NewMongoRepository(m.db))
}

func (m *MongoRepositoryManager) Tasks() tasks.Repository {
	return tasks.NewMongoRepository(m.db)
}

func (m *MongoRepositoryManager) Events() events.Repository {
	return events.NewMongoRepository(m.db)
}

func (m *MongoRepositoryManager) Activities() activities.Repository {
	return activities.NewMongoRepository(m.db)
}

func (m *MongoRepositoryManager) Invites() invites.Repository {
	return invites.NewMongoRepository(m.db)
}

func (m *MongoRepositoryManager) RefreshTokens() refreshtokens.Repository {
	return refreshtokens.NewMongoRepository(m.db)
}

// WithinTx runs fn directly: standalone deployments have no multi-document
// transactions.
func (m *MongoRepositoryManager) WithinTx(ctx context.Context, fn func(ctx context.Context, m RepositoryManager) error) error {
	return fn(ctx, m)
}

// mongoIndexes maps every collection to the indexes it needs.
func mongoIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		users.CollectionName:         users.Indexes(),
		tags.CollectionName:          tags.Indexes(),
		tasks.CollectionName:         tasks.Indexes(),
		events.CollectionName:        events.Indexes(),
		activities.CollectionName:    activities.Indexes(),
		invites.CollectionName:       invites.Indexes(),
		refreshtokens.CollectionName: refreshtokens.Indexes(),
	}
}

// RunMigrations creates the indexes; creating an existing index is a no-op.
func (m *MongoRepositoryManager) RunMigrations(ctx context.Context) error {
	for name, idx := range mongoIndexes() {
		if _, err := m.db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
