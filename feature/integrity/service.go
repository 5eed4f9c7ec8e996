package integrity

import (
	"context"
	"errors"

	"courtside/core/models"
	"courtside/core/storage"
	"courtside/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrArchiveDisabled is returned by archive checks when no storage is configured.
var ErrArchiveDisabled = errors.New("archive storage is not configured")

// Service handles integrity checks.
type Service struct {
	db     *gorm.DB
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewService creates a new integrity service. client may be nil when the
// archive is disabled.
func NewService(db *gorm.DB, client storage.Client, bucket string, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// CheckSchema compares the live tables with the models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, models.All()...)
}

// CheckData counts rows breaking the store's invariants.
func (s *Service) CheckData(ctx context.Context) (*checks.DataReport, error) {
	return checks.CheckData(ctx, s.db)
}

// CheckArchive inspects the archive bucket.
func (s *Service) CheckArchive(ctx context.Context) (*checks.ArchiveReport, error) {
	if s.client == nil {
		return nil, ErrArchiveDisabled
	}
	return checks.CheckArchive(ctx, s.client, s.bucket)
}

// FixArchive creates the archive bucket.
func (s *Service) FixArchive(ctx context.Context) error {
	if s.client == nil {
		return ErrArchiveDisabled
	}
	s.logger.Info("Creating archive bucket", zap.String("bucket", s.bucket))
	return checks.FixArchive(ctx, s.client, s.bucket)
}

// Report runs every check. Failing checks are reported inline.
func (s *Service) Report(ctx context.Context) map[string]any {
	report := make(map[string]any)

	if schema, err := s.CheckSchema(); err != nil {
		report["schema"] = map[string]any{"status": "error", "error": err.Error()}
	} else {
		report["schema"] = schema
	}

	if data, err := s.CheckData(ctx); err != nil {
		report["data"] = map[string]any{"status": "error", "error": err.Error()}
	} else {
		report["data"] = data
	}

	switch archive, err := s.CheckArchive(ctx); {
	case errors.Is(err, ErrArchiveDisabled):
		report["archive"] = map[string]any{"status": "disabled"}
	case err != nil:
		report["archive"] = map[string]any{"status": "error", "error": err.Error()}
	default:
		report["archive"] = archive
	}

	return report
}
