package events

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

const CollectionName = "events"

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName)}
}

func Indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}}},
	}
}

func updateDoc(e *models.Event) bson.M {
	return bson.M{"$set": bson.M{
		"title":       e.Title,
		"description": e.Description,
		"date":        e.Date,
		"start_time":  e.StartTime,
		"end_time":    e.EndTime,
		"attendees":   e.AttendeeIDs,
		"updated_at":  e.UpdatedAt,
	}}
}

func (r *MongoRepository) Create(ctx context.Context, e *models.Event) error {
	doc := *e
	if doc.AttendeeIDs == nil {
		doc.AttendeeIDs = []string{}
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	e := &models.Event{}
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *MongoRepository) ListByUser(ctx context.Context, userID string) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	out := []models.Event{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *MongoRepository) Update(ctx context.Context, e *models.Event) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": e.ID}, updateDoc(e))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return res.DeletedCount > 0, nil
}
