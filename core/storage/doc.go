// Package storage archives the raw records each source yields during a pipeline run.
//
// It wraps the MinIO Go client behind a narrow Client interface, which supports both
// AWS S3 and self-hosted MinIO, and can be mocked for unit tests (core/storage/mocks).
//
// # Archive
//
// Archive writes one JSON document per source and run under
// runs/<date>/<run id>/<source>.json. Archiving is best effort: a failed upload is
// logged by the pipeline and never affects ingestion. Prune removes documents older
// than a cutoff and runs alongside the stale match sweep.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	archive := storage.NewArchive(client, cfg.Storage.Bucket)
//	err = archive.EnsureBucket(ctx)
package storage
