package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"yt-insight/db"
	"yt-insight/models"
)

type ProfileRepository struct {
	col *mongo.Collection
}

func NewProfileRepository(d *mongo.Database) *ProfileRepository {
	return &ProfileRepository{col: d.Collection(db.CollectionUsers)}
}

// FindByUID returns the profile for uid, or nil when none exists.
func (r *ProfileRepository) FindByUID(ctx context.Context, uid string) (*models.UserProfile, error) {
	var p models.UserProfile
	if err := r.col.FindOne(ctx, bson.M{"_id": uid}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Insert stores a new profile. The caller sets UID and the starting credits.
func (r *ProfileRepository) Insert(ctx context.Context, p models.UserProfile) error {
	_, err := r.col.InsertOne(ctx, p)
	return err
}

// DecrementCredit atomically takes one credit from uid if its balance is at least one.
// It returns the updated profile, or nil when the balance was insufficient or the profile is absent.
func (r *ProfileRepository) DecrementCredit(ctx context.Context, uid string) (*models.UserProfile, error) {
	filter := bson.M{"_id": uid, "credits": bson.M{"$gte": 1}}
	update := bson.M{"$inc": bson.M{"credits": -1}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p models.UserProfile
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// GrantCredits adds n credits and returns the updated profile.
func (r *ProfileRepository) GrantCredits(ctx context.Context, uid string, n int) (*models.UserProfile, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.UserProfile
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": uid}, bson.M{"$inc": bson.M{"credits": n}}, opts).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Update sets the non-nil fields of u and returns the updated profile.
func (r *ProfileRepository) Update(ctx context.Context, uid string, u models.ProfileUpdate) (*models.UserProfile, error) {
	set := bson.M{}
	if u.FullName != nil {
		set["full_name"] = *u.FullName
	}
	if u.YouTubeChannelName != nil {
		set["youtube_channel_name"] = *u.YouTubeChannelName
	}
	if u.Address != nil {
		set["address"] = *u.Address
	}
	if u.PhoneNumber != nil {
		set["phone_number"] = *u.PhoneNumber
	}
	if len(set) == 0 {
		return r.FindByUID(ctx, uid)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.UserProfile
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": uid}, bson.M{"$set": set}, opts).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Watch opens a change stream over profile updates.
func (r *ProfileRepository) Watch(ctx context.Context) (*mongo.ChangeStream, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"operationType": bson.M{"$in": bson.A{"insert", "update", "replace"}}}}},
	}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	return r.col.Watch(ctx, pipeline, opts)
}
