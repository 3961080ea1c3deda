package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"yt-insight/models"
)

func profileDoc(uid string, credits int) bson.D {
	return bson.D{
		{Key: "_id", Value: uid},
		{Key: "email", Value: uid + "@example.com"},
		{Key: "full_name", Value: "Test User"},
		{Key: "credits", Value: credits},
	}
}

func TestProfileRepository_DecrementCredit(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("sufficient balance", func(mt *mtest.T) {
		repo := NewProfileRepository(mt.DB)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: profileDoc("u1", 1)}})

		p, err := repo.DecrementCredit(context.Background(), "u1")
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, 1, p.Credits)
	})

	mt.Run("insufficient balance leaves no write", func(mt *mtest.T) {
		repo := NewProfileRepository(mt.DB)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		p, err := repo.DecrementCredit(context.Background(), "u1")
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	mt.Run("store failure", func(mt *mtest.T) {
		repo := NewProfileRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "boom"}))

		_, err := repo.DecrementCredit(context.Background(), "u1")
		assert.Error(t, err)
	})
}

func TestProfileRepository_FindByUID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		repo := NewProfileRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "yt_insight.users", mtest.FirstBatch, profileDoc("u1", 2)))

		p, err := repo.FindByUID(context.Background(), "u1")
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "u1", p.UID)
		assert.Equal(t, 2, p.Credits)
	})

	mt.Run("absent is not an error", func(mt *mtest.T) {
		repo := NewProfileRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "yt_insight.users", mtest.FirstBatch))

		p, err := repo.FindByUID(context.Background(), "nobody")
		require.NoError(t, err)
		assert.Nil(t, p)
	})
}

func TestProfileRepository_UpdateWithoutFieldsReadsCurrent(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("empty update", func(mt *mtest.T) {
		repo := NewProfileRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "yt_insight.users", mtest.FirstBatch, profileDoc("u1", 2)))

		p, err := repo.Update(context.Background(), "u1", models.ProfileUpdate{})
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "Test User", p.FullName)
	})
}

func TestReportRepository_Insert(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns generated id", func(mt *mtest.T) {
		repo := NewReportRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		id, err := repo.Insert(context.Background(), models.Report{UserID: "u1", VideoID: "ABCDEFGHIJK"})
		require.NoError(t, err)
		assert.False(t, id.IsZero())
	})
}

func TestReportRepository_ListByUser(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes in store order", func(mt *mtest.T) {
		repo := NewReportRepository(mt.DB)
		newer := bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "user_id", Value: "u1"},
			{Key: "video_id", Value: "BBBBBBBBBBB"},
			{Key: "created_at", Value: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)},
		}
		older := bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "user_id", Value: "u1"},
			{Key: "video_id", Value: "AAAAAAAAAAA"},
			{Key: "created_at", Value: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "yt_insight.reports", mtest.FirstBatch, newer, older))

		reports, err := repo.ListByUser(context.Background(), "u1")
		require.NoError(t, err)
		require.Len(t, reports, 2)
		assert.Equal(t, "BBBBBBBBBBB", reports[0].VideoID)
		assert.Equal(t, "AAAAAAAAAAA", reports[1].VideoID)
	})

	mt.Run("no reports yields empty slice", func(mt *mtest.T) {
		repo := NewReportRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "yt_insight.reports", mtest.FirstBatch))

		reports, err := repo.ListByUser(context.Background(), "u1")
		require.NoError(t, err)
		assert.NotNil(t, reports)
		assert.Empty(t, reports)
	})
}

func TestAccountRepository_InsertDuplicate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := NewAccountRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))

		err := repo.Insert(context.Background(), models.Account{UID: "u1", Email: "A@Example.com"})
		assert.ErrorIs(t, err, ErrDuplicateEmail)
	})
}
