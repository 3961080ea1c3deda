// Package archive copies stored reports into object storage as JSON documents.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"yt-insight/config"
	"yt-insight/models"
)

const contentTypeJSON = "application/json"

var ErrNotConfigured = errors.New("archive endpoint is not configured")

// ObjectStore is the part of *minio.Client the archiver uses.
type ObjectStore interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
}

// Archiver writes one object per report under reports/{userId}/{reportId}.json.
type Archiver struct {
	store  ObjectStore
	bucket string
}

// NewMinIOClient connects to the configured endpoint with static credentials.
func NewMinIOClient(cfg config.AppConfig) (*minio.Client, error) {
	if cfg.Archive.Endpoint == "" {
		return nil, ErrNotConfigured
	}
	return minio.New(cfg.Archive.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.Archive.UseSSL,
		Transport: &http.Transport{
			MaxIdleConns:        16,
			MaxIdleConnsPerHost: 16,
			IdleConnTimeout:     90 * time.Second,
		},
	})
}

func New(store ObjectStore, bucket string) *Archiver {
	return &Archiver{store: store, bucket: bucket}
}

func ObjectKey(userID, reportID string) string {
	return fmt.Sprintf("reports/%s/%s.json", userID, reportID)
}

// EnsureBucket creates the bucket when it does not exist yet.
func (a *Archiver) EnsureBucket(ctx context.Context) error {
	exists, err := a.store.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", a.bucket, err)
	}
	if exists {
		return nil
	}
	if err := a.store.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", a.bucket, err)
	}
	config.Logger().Info("archive bucket created", "bucket", a.bucket)
	return nil
}

// Store uploads r and returns its object key. Re-archiving a report overwrites the same key.
func (a *Archiver) Store(ctx context.Context, r models.Report) (string, error) {
	if r.ID.IsZero() || r.UserID == "" {
		return "", fmt.Errorf("report is missing id or user id")
	}
	body, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshal report %s: %w", r.ID.Hex(), err)
	}
	key := ObjectKey(r.UserID, r.ID.Hex())
	_, err = a.store.PutObject(ctx, a.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: contentTypeJSON,
		UserMetadata: map[string]string{
			"video-id":  r.VideoID,
			"report-id": r.ID.Hex(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}

// Load reads an archived report back. A missing object surfaces as an error.
func (a *Archiver) Load(ctx context.Context, userID, reportID string) (*models.Report, error) {
	obj, err := a.store.GetObject(ctx, a.bucket, ObjectKey(userID, reportID), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	var r models.Report
	if err := json.NewDecoder(obj).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode archived report %s: %w", reportID, err)
	}
	return &r, nil
}
