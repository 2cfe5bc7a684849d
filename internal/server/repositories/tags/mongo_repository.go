package tags

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/dailyroutine/internal/common"
	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "tags"

// tagDocument keys a tag by owner and id so the pair is unique.
type tagDocument struct {
	Key   tagKey `bson:"_id"`
	Name  string `bson:"name"`
	Color string `bson:"color"`
	Seq   int64  `bson:"seq"`
}

type tagKey struct {
	UserID string `bson:"user_id"`
	ID     string `bson:"id"`
}

// MongoRepository stores tags in a standalone collection.
type MongoRepository struct {
	coll *mongo.Collection
	seq  func() int64
}

func NewMongoRepository(db *mongo.Database, seq func() int64) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName), seq: seq}
}

func Indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "_id.user_id", Value: 1}, {Key: "seq", Value: 1}}},
	}
}

func ownerFilter(userID string) bson.M {
	return bson.M{"_id.user_id": userID}
}

func (r *MongoRepository) Create(ctx context.Context, userID string, tag models.Tag) error {
	doc := tagDocument{Key: tagKey{UserID: userID, ID: tag.ID}, Name: tag.Name, Color: tag.Color, Seq: r.seq()}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: tag %s already exists", common.ErrorConflict, tag.ID)
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *MongoRepository) Delete(ctx context.Context, userID, tagID string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": tagKey{UserID: userID, ID: tagID}})
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository) List(ctx context.Context, userID string) ([]models.Tag, error) {
	cur, err := r.coll.Find(ctx, ownerFilter(userID), options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	var docs []tagDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	out := make([]models.Tag, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.Tag{ID: d.Key.ID, UserID: d.Key.UserID, Name: d.Name, Color: d.Color})
	}
	return out, nil
}
