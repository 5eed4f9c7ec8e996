package admin

import (
	"errors"

	"courtside/core/logger"
	"courtside/core/pipeline"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UpdateResponse is returned by a successful manual run.
type UpdateResponse struct {
	Total  int             `json:"total"`
	Report pipeline.Report `json:"report"`
}

// ToggleRequest is the body of PUT /admin/sources/:name.
type ToggleRequest struct {
	Enabled *bool `json:"enabled"`
}

// Handler handles HTTP requests for administrative operations.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the admin routes behind the given middleware.
func (h *Handler) RegisterRoutes(app fiber.Router, middleware ...fiber.Handler) {
	group := app.Group("/admin", middleware...)
	group.Post("/update", h.HandleUpdate)
	group.Post("/clean", h.HandleClean)
	group.Get("/runs", h.HandleRuns)
	group.Get("/sources", h.HandleSources)
	group.Put("/sources/:name", h.HandleToggleSource)
}

// HandleUpdate runs every source once.
// @Summary Run Update
// @Description Runs the reconciliation pipeline synchronously and returns its report.
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} UpdateResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Update Failed"
// @Router /admin/update [post]
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Manual update requested")

	report, err := h.service.Update(c.UserContext(), pipeline.TriggerManual)
	if err != nil {
		l.Error("Manual update failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "update failed",
			"details": err.Error(),
		})
	}
	return c.JSON(UpdateResponse{Total: report.Total, Report: report})
}

// HandleClean deletes stale matches.
// @Summary Clean Stale Matches
// @Description Deletes matches whose start is older than the stale window.
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]int64 "Deleted count"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /admin/clean [post]
func (h *Handler) HandleClean(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	deleted, err := h.service.Clean(c.UserContext())
	if err != nil {
		l.Error("Stale cleanup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	l.Info("Stale matches deleted", zap.Int64("deleted", deleted))
	return c.JSON(fiber.Map{"deleted": deleted})
}

// HandleRuns lists recent runs.
// @Summary List Runs
// @Description Lists the most recent pipeline runs, newest first.
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "Maximum runs (default 20, max 100)"
// @Success 200 {array} pipeline.Report
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /admin/runs [get]
func (h *Handler) HandleRuns(c *fiber.Ctx) error {
	runs, err := h.service.Runs(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Run history query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(runs)
}

// HandleSources lists sources with their enabled flag.
// @Summary List Sources
// @Description Lists registered sources in run order.
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} SourceStatus
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /admin/sources [get]
func (h *Handler) HandleSources(c *fiber.Ctx) error {
	sources, err := h.service.Sources(c.UserContext())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Source listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(sources)
}

// HandleToggleSource enables or disables a source.
// @Summary Toggle Source
// @Description Stores the enabled flag of a source; disabled sources are skipped by runs.
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param name path string true "Source name"
// @Param body body ToggleRequest true "Enabled flag"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Unknown Source"
// @Router /admin/sources/{name} [put]
func (h *Handler) HandleToggleSource(c *fiber.Ctx) error {
	name := c.Params("name")

	var req ToggleRequest
	if err := c.BodyParser(&req); err != nil || req.Enabled == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": `body must be {"enabled": true|false}`})
	}

	err := h.service.SetSourceEnabled(c.UserContext(), name, *req.Enabled)
	switch {
	case errors.Is(err, ErrUnknownSource):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		logger.WithRayID(h.service.logger, c).Error("Source toggle failed", zap.String("source", name), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"name": name, "enabled": *req.Enabled})
}
