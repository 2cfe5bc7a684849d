package invites

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/dailyroutine/internal/common"
	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "invites"

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName)}
}

func Indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "sender_email", Value: 1}, {Key: "created_at", Value: -1}}},
	}
}

func (r *MongoRepository) Create(ctx context.Context, inv *models.Invite) error {
	if _, err := r.coll.InsertOne(ctx, inv); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*models.Invite, error) {
	inv := &models.Invite{}
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(inv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return inv, nil
}

func (r *MongoRepository) ListBySender(ctx context.Context, senderEmail string) ([]models.Invite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"sender_email": senderEmail}, opts)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	out := []models.Invite{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *MongoRepository) UpdateStatus(ctx context.Context, id string, status models.InviteStatus, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status, "updated_at": at}})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}
