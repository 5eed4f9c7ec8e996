package integrity

import (
	"courtside/core/middleware/auth"
	"courtside/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
	apiKey  string
}

// NewFeature creates the integrity feature. Like the admin routes it needs
// the server API key.
func NewFeature(db *gorm.DB, client storage.Client, bucket string, logger *zap.Logger, apiKey string) *Feature {
	svc := NewService(db, client, bucket, logger)
	return &Feature{service: svc, handler: NewHandler(svc), apiKey: apiKey}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "integrity"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.apiKey != ""
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app, auth.New(auth.Config{ApiKey: f.apiKey}))
	return nil
}
