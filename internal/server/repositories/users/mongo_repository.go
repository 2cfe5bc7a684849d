package users

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dmitrijs2005/dailyroutine/internal/common"
	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the Mongo collection holding user documents.
const CollectionName = "users"

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName)}
}

// Indexes lists the indexes the collection relies on.
func Indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}},
	}
}

var publicProjection = bson.M{"name": 1, "email": 1, "avatar": 1}

func searchFilter(q string) bson.M {
	re := containsRegex(q)
	return bson.M{"$or": bson.A{
		bson.M{"name": re},
		bson.M{"email": re},
	}}
}

func containsRegex(q string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}
}

func addTagFilter(userID, tagID string) bson.M {
	return bson.M{"_id": userID, "tags.id": bson.M{"$ne": tagID}}
}

func mongoErr(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return common.ErrorNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: email already registered", common.ErrorConflict)
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *MongoRepository) Create(ctx context.Context, user *models.User) error {
	doc := *user
	if doc.Tags == nil {
		doc.Tags = []models.Tag{}
	}
	if doc.Contacts == nil {
		doc.Contacts = []string{}
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return mongoErr(err)
	}
	return nil
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	u := &models.User{}
	if err := r.coll.FindOne(ctx, filter).Decode(u); err != nil {
		return nil, mongoErr(err)
	}
	return u, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoRepository) GetMany(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, mongoErr(err)
	}
	var found []models.User
	if err := cur.All(ctx, &found); err != nil {
		return nil, mongoErr(err)
	}
	return orderByIDs(ids, found, func(u models.User) string { return u.ID }), nil
}

func (r *MongoRepository) updateOne(ctx context.Context, id string, update bson.M) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return mongoErr(err)
	}
	if res.MatchedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *MongoRepository) UpdateProfile(ctx context.Context, id, name, email string, at time.Time) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"name": name, "email": email, "updated_at": at}})
}

func (r *MongoRepository) UpdatePassword(ctx context.Context, id, hash string, at time.Time) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"password_hash": hash, "updated_at": at}})
}

func (r *MongoRepository) UpdateAvatar(ctx context.Context, id string, avatar models.Avatar, at time.Time) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"avatar": avatar, "updated_at": at}})
}

func (r *MongoRepository) SetVerified(ctx context.Context, id string, at time.Time) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"verified": true, "updated_at": at}})
}

func (r *MongoRepository) AddContact(ctx context.Context, id, contactID string) error {
	return r.updateOne(ctx, id, bson.M{"$addToSet": bson.M{"contacts": contactID}})
}

func (r *MongoRepository) RemoveContact(ctx context.Context, id, contactID string) error {
	return r.updateOne(ctx, id, bson.M{"$pull": bson.M{"contacts": contactID}})
}

func (r *MongoRepository) ListContacts(ctx context.Context, id string, skip, limit int) ([]models.PublicUser, error) {
	owner, err := r.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return []models.PublicUser{}, nil
		}
		return nil, err
	}
	if len(owner.Contacts) == 0 {
		return []models.PublicUser{}, nil
	}

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": owner.Contacts}}, options.Find().SetProjection(publicProjection))
	if err != nil {
		return nil, mongoErr(err)
	}
	var found []models.PublicUser
	if err := cur.All(ctx, &found); err != nil {
		return nil, mongoErr(err)
	}
	resolved := orderByIDs(owner.Contacts, found, func(p models.PublicUser) string { return p.ID })
	return window(resolved, skip, limit), nil
}

func (r *MongoRepository) Search(ctx context.Context, q string, skip, limit int) ([]models.PublicUser, error) {
	opts := options.Find().
		SetProjection(publicProjection).
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, searchFilter(q), opts)
	if err != nil {
		return nil, mongoErr(err)
	}
	out := []models.PublicUser{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, mongoErr(err)
	}
	return out, nil
}

func (r *MongoRepository) AddTag(ctx context.Context, userID string, tag models.Tag) error {
	res, err := r.coll.UpdateOne(ctx, addTagFilter(userID, tag.ID), bson.M{"$push": bson.M{"tags": tag}})
	if err != nil {
		return mongoErr(err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": userID})
	if err != nil {
		return mongoErr(err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return fmt.Errorf("%w: tag %s already exists", common.ErrorConflict, tag.ID)
}

func (r *MongoRepository) RemoveTag(ctx context.Context, userID, tagID string) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": userID, "tags.id": tagID},
		bson.M{"$pull": bson.M{"tags": bson.M{"id": tagID}}})
	if err != nil {
		return false, mongoErr(err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *MongoRepository) ListTags(ctx context.Context, userID string) ([]models.Tag, error) {
	u := &models.User{}
	err := r.coll.FindOne(ctx, bson.M{"_id": userID}, options.FindOne().SetProjection(bson.M{"tags": 1})).Decode(u)
	if err != nil {
		return nil, mongoErr(err)
	}
	if u.Tags == nil {
		return []models.Tag{}, nil
	}
	return u.Tags, nil
}
