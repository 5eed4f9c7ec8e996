package admin

import (
	"courtside/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
	apiKey  string
}

// NewFeature creates the admin feature. Without an API key it stays disabled.
func NewFeature(runner Runner, toggles Toggles, logger *zap.Logger, apiKey string) *Feature {
	svc := NewService(runner, toggles, logger)
	return &Feature{service: svc, handler: NewHandler(svc), apiKey: apiKey}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "admin"
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
