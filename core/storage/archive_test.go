package storage_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"courtside/core/storage"
	"courtside/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRunKey(t *testing.T) {
	started := time.Date(2025, 3, 9, 23, 30, 0, 0, time.FixedZone("CET", 3600))
	assert.Equal(t, "runs/2025-03-09/run-1/nba.json", storage.RunKey(started, "run-1", "nba"))
}

func TestArchive_EnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "runs").Return(true, nil)

		require.NoError(t, storage.NewArchive(client, "runs").EnsureBucket(ctx))
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Creates", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "runs").Return(false, nil)
		client.On("MakeBucket", ctx, "runs", minio.MakeBucketOptions{}).Return(nil)

		require.NoError(t, storage.NewArchive(client, "runs").EnsureBucket(ctx))
		client.AssertExpectations(t)
	})

	t.Run("CheckFails", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "runs").Return(false, errors.New("denied"))

		err := storage.NewArchive(client, "runs").EnsureBucket(ctx)
		assert.ErrorContains(t, err, "denied")
	})
}

func TestArchive_PutJSON(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)

	var body []byte
	client.On("PutObject", ctx, "runs", "runs/k.json", mock.Anything, mock.AnythingOfType("int64"), mock.Anything).
		Run(func(args mock.Arguments) {
			body, _ = io.ReadAll(args.Get(3).(io.Reader))
		}).
		Return(minio.UploadInfo{}, nil)

	err := storage.NewArchive(client, "runs").PutJSON(ctx, "runs/k.json", map[string]int{"total": 3})
	require.NoError(t, err)

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, 3, decoded["total"])
}

func TestArchive_Prune(t *testing.T) {
	ctx := context.Background()
	cutoff := time.Now().Add(-24 * time.Hour)

	objects := make(chan minio.ObjectInfo, 2)
	objects <- minio.ObjectInfo{Key: "runs/old.json", LastModified: cutoff.Add(-time.Hour)}
	objects <- minio.ObjectInfo{Key: "runs/new.json", LastModified: cutoff.Add(time.Hour)}
	close(objects)

	client := new(mocks.Client)
	client.On("ListObjects", ctx, "runs", minio.ListObjectsOptions{Prefix: storage.RunsPrefix, Recursive: true}).
		Return((<-chan minio.ObjectInfo)(objects))
	client.On("RemoveObject", ctx, "runs", "runs/old.json", minio.RemoveObjectOptions{}).Return(nil)

	removed, err := storage.NewArchive(client, "runs").Prune(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	client.AssertNotCalled(t, "RemoveObject", ctx, "runs", "runs/new.json", mock.Anything)
}
