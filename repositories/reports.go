package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"yt-insight/db"
	"yt-insight/models"
)

type ReportRepository struct {
	col *mongo.Collection
}

func NewReportRepository(d *mongo.Database) *ReportRepository {
	return &ReportRepository{col: d.Collection(db.CollectionReports)}
}

// Insert stores a report with a server-assigned creation time and returns its id.
func (r *ReportRepository) Insert(ctx context.Context, rep models.Report) (primitive.ObjectID, error) {
	rep.ID = primitive.NilObjectID
	rep.CreatedAt = time.Now().UTC()
	res, err := r.col.InsertOne(ctx, rep)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("unexpected inserted id type")
	}
	return id, nil
}

// ListByUser returns every report of userID, newest first.
func (r *ReportRepository) ListByUser(ctx context.Context, userID string) ([]models.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	reports := []models.Report{}
	for cur.Next(ctx) {
		var rep models.Report
		if err := cur.Decode(&rep); err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}

// FindByUserAndID returns the report only when it belongs to userID; nil otherwise.
func (r *ReportRepository) FindByUserAndID(ctx context.Context, userID string, id primitive.ObjectID) (*models.Report, error) {
	var rep models.Report
	if err := r.col.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&rep); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &rep, nil
}

// FindByID returns a report regardless of owner. Used by background workers only.
func (r *ReportRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Report, error) {
	var rep models.Report
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rep); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &rep, nil
}
