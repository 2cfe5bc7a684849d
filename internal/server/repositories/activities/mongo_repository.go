package activities

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "activities"

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName)}
}

func Indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
}

func listOptions(skip, limit int) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))
}

func (r *MongoRepository) Create(ctx context.Context, a *models.Activity) error {
	if _, err := r.coll.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *MongoRepository) ListByUser(ctx context.Context, userID string, skip, limit int) ([]models.Activity, error) {
	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID}, listOptions(skip, limit))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	out := []models.Activity{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
