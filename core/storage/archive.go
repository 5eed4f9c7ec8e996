package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
)

// RunsPrefix is the key prefix every archived run lives under.
const RunsPrefix = "runs/"

// Archive writes JSON documents describing pipeline runs to a bucket.
type Archive struct {
	client Client
	bucket string
}

// NewArchive creates an archive writing into bucket.
func NewArchive(client Client, bucket string) *Archive {
	return &Archive{client: client, bucket: bucket}
}

// Bucket returns the bucket name.
func (a *Archive) Bucket() string {
	return a.bucket
}

// RunKey builds the object key for one source's records within a run.
func RunKey(startedAt time.Time, runID, source string) string {
	return path.Join("runs", startedAt.UTC().Format("2006-01-02"), runID, source+".json")
}

// EnsureBucket creates the bucket when it does not exist yet.
func (a *Archive) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", a.bucket, err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", a.bucket, err)
	}
	return nil
}

// PutJSON marshals v and stores it under key.
func (a *Archive) PutJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Prune removes archived run objects last modified before cutoff and
// returns how many were removed.
func (a *Archive) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	removed := 0
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: RunsPrefix, Recursive: true}) {
		if obj.Err != nil {
			return removed, fmt.Errorf("list %s: %w", a.bucket, obj.Err)
		}
		if !obj.LastModified.Before(cutoff) {
			continue
		}
		if err := a.client.RemoveObject(ctx, a.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return removed, fmt.Errorf("remove %s: %w", obj.Key, err)
		}
		removed++
	}
	return removed, nil
}
