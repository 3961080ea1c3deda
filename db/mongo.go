package db

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"yt-insight/config"
)

const (
	CollectionUsers    = "users"
	CollectionAccounts = "accounts"
	CollectionReports  = "reports"
	CollectionAILogs   = "ai_logs"
)

var (
	clientOnce sync.Once
	client     *mongo.Client
	db         *mongo.Database
)

// Init initializes the global Mongo client and database using config values.
func Init(ctx context.Context) error {
	var initErr error
	clientOnce.Do(func() {
		cfg := config.GetConfig()

		cl, err := mongo.NewClient(options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			initErr = err
			return
		}
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := cl.Connect(ctx); err != nil {
			initErr = err
			return
		}
		// Ping to verify connection
		if err := cl.Ping(ctx, readpref.Primary()); err != nil {
			initErr = err
			return
		}
		client = cl
		db = client.Database(cfg.Mongo.Database)

		if err := EnsureIndexes(ctx, db); err != nil {
			initErr = err
			return
		}
		config.Logger().Info("MongoDB connected and indexes ensured", "database", cfg.Mongo.Database)
	})
	return initErr
}

func Client() *mongo.Client     { return client }
func Database() *mongo.Database { return db }

// Disconnect closes the global client if Init succeeded.
func Disconnect(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes every collection relies on.
func EnsureIndexes(ctx context.Context, d *mongo.Database) error {
	// accounts: unique email, unique uid
	{
		if _, err := d.Collection(CollectionAccounts).Indexes().CreateMany(ctx, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("uniq_email").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "uid", Value: 1}},
				Options: options.Index().SetName("uniq_uid").SetUnique(true),
			},
		}); err != nil {
			return err
		}
	}

	// reports: per-user listing newest first
	{
		if _, err := d.Collection(CollectionReports).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_user_created_at_desc"),
		}); err != nil {
			return err
		}
	}

	// ai_logs: user_id + finished_at desc
	{
		if _, err := d.Collection(CollectionAILogs).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "finished_at", Value: -1}},
			Options: options.Index().SetName("idx_user_finished_desc"),
		}); err != nil {
			return err
		}
	}
	return nil
}
