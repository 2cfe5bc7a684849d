package tags

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/dailyroutine/internal/common"
	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMock(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func seqCounter() func() int64 {
	var n int64
	return func() int64 { n++; return n }
}

func tagDoc(userID, id, name string, seq int) bson.D {
	return bson.D{
		{Key: "_id", Value: bson.D{{Key: "user_id", Value: userID}, {Key: "id", Value: id}}},
		{Key: "name", Value: name},
		{Key: "color", Value: "#0f0"},
		{Key: "seq", Value: int64(seq)},
	}
}

func TestMongo_Create(t *testing.T) {
	mt := newMock(t)

	mt.Run("keys by owner and id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		r := NewMongoRepository(mt.DB, seqCounter())
		require.NoError(mt, r.Create(context.Background(), "u1", models.Tag{ID: "t1", Name: "Work"}))

		doc := mt.GetStartedEvent().Command.Lookup("documents").Array().Index(0).Value().Document()
		assert.Equal(mt, "u1", doc.Lookup("_id", "user_id").StringValue())
		assert.Equal(mt, "t1", doc.Lookup("_id", "id").StringValue())
		assert.Equal(mt, int64(1), doc.Lookup("seq").Int64())
	})

	mt.Run("duplicate id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key"}))
		err := NewMongoRepository(mt.DB, seqCounter()).Create(context.Background(), "u1", models.Tag{ID: "t1"})
		assert.ErrorIs(mt, err, common.ErrorConflict)
	})
}

func TestMongo_Delete(t *testing.T) {
	mt := newMock(t)

	mt.Run("reports removal", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)
		r := NewMongoRepository(mt.DB, seqCounter())

		ok, err := r.Delete(context.Background(), "u1", "t1")
		require.NoError(mt, err)
		assert.True(mt, ok)

		ok, err = r.Delete(context.Background(), "u1", "t1")
		require.NoError(mt, err)
		assert.False(mt, ok)
	})
}

func TestMongo_List(t *testing.T) {
	mt := newMock(t)

	mt.Run("sorted by insertion", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + CollectionName
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			tagDoc("u1", "t1", "Work", 1), tagDoc("u1", "t2", "Home", 2)))

		got, err := NewMongoRepository(mt.DB, seqCounter()).List(context.Background(), "u1")
		require.NoError(mt, err)
		assert.Equal(mt, []models.Tag{
			{ID: "t1", UserID: "u1", Name: "Work", Color: "#0f0"},
			{ID: "t2", UserID: "u1", Name: "Home", Color: "#0f0"},
		}, got)

		cmd := mt.GetStartedEvent().Command
		assert.Equal(mt, "u1", cmd.Lookup("filter", "_id.user_id").StringValue())
		assert.Equal(mt, int64(1), cmd.Lookup("sort", "seq").AsInt64())
	})

	mt.Run("none", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + CollectionName
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		got, err := NewMongoRepository(mt.DB, seqCounter()).List(context.Background(), "u1")
		require.NoError(mt, err)
		assert.NotNil(mt, got)
		assert.Empty(mt, got)
	})
}
