package checks

import (
	"context"
	"fmt"

	"courtside/core/storage"

	"github.com/minio/minio-go/v7"
)

// ArchiveReport describes the raw record archive.
type ArchiveReport struct {
	Bucket       string `json:"bucket"`
	BucketExists bool   `json:"bucket_exists"`
	// Objects is the number of archived source documents.
	Objects int `json:"objects"`
}

// CheckArchive inspects the archive bucket.
func CheckArchive(ctx context.Context, client storage.Client, bucket string) (*ArchiveReport, error) {
	report := &ArchiveReport{Bucket: bucket}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.BucketExists = exists
	if !exists {
		return report, nil
	}

	opts := minio.ListObjectsOptions{Prefix: storage.RunsPrefix, Recursive: true}
	for obj := range client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list %s: %w", bucket, obj.Err)
		}
		report.Objects++
	}
	return report, nil
}

// FixArchive creates the archive bucket when it is missing.
func FixArchive(ctx context.Context, client storage.Client, bucket string) error {
	return storage.NewArchive(client, bucket).EnsureBucket(ctx)
}
