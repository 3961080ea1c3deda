package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AILog records one report-generation call, successful or not.
// Collection: ai_logs
type AILog struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RunID        string             `bson:"run_id" json:"run_id"`
	UserID       string             `bson:"user_id" json:"user_id"`
	VideoID      string             `bson:"video_id" json:"video_id"`
	Model        string             `bson:"model" json:"model"`
	ModelVersion string             `bson:"model_version,omitempty" json:"model_version,omitempty"`
	Usage        TokenCounts        `bson:"usage" json:"usage"`
	CommentCount int                `bson:"comment_count" json:"comment_count"`
	LatencyMs    int64              `bson:"latency_ms" json:"latency_ms"`
	Prompt       string             `bson:"prompt" json:"prompt"`
	Response     string             `bson:"response,omitempty" json:"response,omitempty"`
	Error        string             `bson:"error,omitempty" json:"error,omitempty"`
	StartedAt    time.Time          `bson:"started_at" json:"started_at"`
	FinishedAt   time.Time          `bson:"finished_at" json:"finished_at"`
}

type TokenCounts struct {
	Input  int64 `bson:"input" json:"input"`
	Output int64 `bson:"output" json:"output"`
	Total  int64 `bson:"total" json:"total"`
}
