package integrity

import (
	"errors"

	"courtside/core/logger"
	"courtside/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	// Force import for Swagger
	var _ = checks.SchemaReport{}
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes behind the given middleware.
func (h *Handler) RegisterRoutes(app fiber.Router, middleware ...fiber.Handler) {
	group := app.Group("/integrity", middleware...)
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/data", h.HandleDataCheck)
	group.Get("/archive", h.HandleArchiveCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs the schema, data and archive checks.
// @Tags integrity
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	return c.JSON(h.service.Report(c.UserContext()))
}

// HandleSchemaCheck checks the database schema.
// @Summary Check Schema
// @Description Checks that every table and column of the models exists in the database.
// @Tags integrity
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckSchema()
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !report.Matched {
		l.Warn("Schema drift detected")
	}
	return c.JSON(report)
}

// HandleDataCheck checks stored rows.
// @Summary Check Data
// @Description Counts orphaned rows, same-team matches, scored scheduled matches and free-flag mismatches.
// @Tags integrity
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} checks.DataReport "Data Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/data [get]
func (h *Handler) HandleDataCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckData(c.UserContext())
	if err != nil {
		l.Error("Data check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// HandleArchiveCheck checks and optionally fixes the archive bucket.
// @Summary Check Archive
// @Description Checks that the raw record archive bucket exists. Optionally creates it.
// @Tags integrity
// @Produce json
// @Security ApiKeyAuth
// @Param fix query boolean false "Create the bucket when missing"
// @Success 200 {object} checks.ArchiveReport "Archive Report"
// @Failure 404 {object} map[string]string "Archive Disabled"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/archive [get]
func (h *Handler) HandleArchiveCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	report, err := h.service.CheckArchive(c.UserContext())
	if errors.Is(err, ErrArchiveDisabled) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Archive check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if !report.BucketExists && fix {
		l.Info("Attempting to create archive bucket")
		if err := h.service.FixArchive(c.UserContext()); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to create bucket",
				"details": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"status": "fixed", "bucket": report.Bucket})
	}
	return c.JSON(report)
}
