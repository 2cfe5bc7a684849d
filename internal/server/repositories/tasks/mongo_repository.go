package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/dailyroutine/internal/common"
	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "tasks"

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName)}
}

func Indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner.id", Value: 1}}},
		{Keys: bson.D{{Key: "assignees.id", Value: 1}}},
	}
}

func involvesFilter(userID string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"owner.id": userID},
		bson.M{"assignees.id": userID},
	}}
}

func updateDoc(t *models.Task) bson.M {
	return bson.M{"$set": bson.M{
		"name":        t.Name,
		"description": t.Description,
		"tags":        t.Tags,
		"assignees":   t.Assignees,
		"status":      t.Status,
		"updated_at":  t.UpdatedAt,
	}}
}

func (r *MongoRepository) Create(ctx context.Context, task *models.Task) error {
	if _, err := r.coll.InsertOne(ctx, task); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	t := &models.Task{}
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *MongoRepository) ListForUser(ctx context.Context, userID string) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, involvesFilter(userID), opts)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	out := []models.Task{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *MongoRepository) Update(ctx context.Context, task *models.Task) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": task.ID}, updateDoc(task))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}
