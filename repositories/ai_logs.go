package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"yt-insight/db"
	"yt-insight/models"
)

// AILogRepository keeps the generation call log. Writes only.
type AILogRepository struct {
	col *mongo.Collection
}

func NewAILogRepository(d *mongo.Database) *AILogRepository {
	return &AILogRepository{col: d.Collection(db.CollectionAILogs)}
}

func (r *AILogRepository) Insert(ctx context.Context, entry models.AILog) error {
	if entry.FinishedAt.IsZero() {
		entry.FinishedAt = time.Now().UTC()
	}
	if entry.StartedAt.IsZero() {
		entry.StartedAt = entry.FinishedAt.Add(-time.Duration(entry.LatencyMs) * time.Millisecond)
	}
	if _, err := r.col.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("insert ai log for run %s: %w", entry.RunID, err)
	}
	return nil
}
