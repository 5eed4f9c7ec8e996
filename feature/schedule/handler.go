package schedule

import (
	"errors"
	"strconv"
	"time"

	"courtside/core/logger"
	"courtside/core/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// leagueWindowDays is the default window of /leagues/:id/matches.
const leagueWindowDays = 30

// Handler handles HTTP requests for the schedule.
type Handler struct {
	service *Service
	now     func() time.Time
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, now: time.Now}
}

// RegisterRoutes registers the schedule routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/matches", h.HandleMatches)
	app.Get("/matches/week", h.HandleWeek)
	app.Get("/matches/month", h.HandleMonth)
	app.Get("/leagues", h.HandleLeagues)
	app.Get("/leagues/:id/matches", h.HandleLeagueMatches)
	app.Get("/broadcasters", h.HandleBroadcasters)
}

// HandleMatches lists matches in a time window.
// @Summary List Matches
// @Description Lists matches of active leagues starting in [start, end), with teams, league and broadcasters.
// @Tags schedule
// @Produce json
// @Param start query string true "Window start (RFC3339 or YYYY-MM-DD)"
// @Param end query string true "Window end, exclusive (RFC3339 or YYYY-MM-DD)"
// @Success 200 {array} models.Match
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /matches [get]
func (h *Handler) HandleMatches(c *fiber.Ctx) error {
	loc := h.service.Location()
	start, err := parseBound(c.Query("start"), loc)
	if err != nil {
		return badRequest(c, err)
	}
	end, err := parseBound(c.Query("end"), loc)
	if err != nil {
		return badRequest(c, err)
	}
	return h.respondMatches(c, start, end)
}

// HandleWeek lists the matches of a calendar week.
// @Summary List Week Matches
// @Description Lists matches of the Monday-to-Sunday week containing date (default today).
// @Tags schedule
// @Produce json
// @Param date query string false "Any day of the week (YYYY-MM-DD)"
// @Success 200 {array} models.Match
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /matches/week [get]
func (h *Handler) HandleWeek(c *fiber.Ctx) error {
	day := h.now()
	if v := c.Query("date"); v != "" {
		var err error
		if day, err = parseBound(v, h.service.Location()); err != nil {
			return badRequest(c, err)
		}
	}
	start, end := h.service.WeekRange(day)
	return h.respondMatches(c, start, end)
}

// HandleMonth lists the matches of a calendar month.
// @Summary List Month Matches
// @Description Lists matches of the given month (default current month).
// @Tags schedule
// @Produce json
// @Param year query int false "Year"
// @Param month query int false "Month (1-12)"
// @Success 200 {array} models.Match
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /matches/month [get]
func (h *Handler) HandleMonth(c *fiber.Ctx) error {
	now := h.now().In(h.service.Location())
	year := c.QueryInt("year", now.Year())
	month := c.QueryInt("month", int(now.Month()))
	if month < 1 || month > 12 || year < 1900 || year > 9999 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid year or month"})
	}
	start, end := h.service.MonthRange(year, time.Month(month))
	return h.respondMatches(c, start, end)
}

// HandleLeagueMatches lists the matches of one league.
// @Summary List League Matches
// @Description Lists matches of an active league, by default over the next 30 days.
// @Tags schedule
// @Produce json
// @Param id path int true "League ID"
// @Param start query string false "Window start (RFC3339 or YYYY-MM-DD)"
// @Param end query string false "Window end, exclusive (RFC3339 or YYYY-MM-DD)"
// @Success 200 {array} models.Match
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "League Not Found"
// @Router /leagues/{id}/matches [get]
func (h *Handler) HandleLeagueMatches(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid league id"})
	}

	loc := h.service.Location()
	now := h.now().In(loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if v := c.Query("start"); v != "" {
		if start, err = parseBound(v, loc); err != nil {
			return badRequest(c, err)
		}
	}
	end := start.AddDate(0, 0, leagueWindowDays)
	if v := c.Query("end"); v != "" {
		if end, err = parseBound(v, loc); err != nil {
			return badRequest(c, err)
		}
	}

	matches, err := h.service.LeagueMatches(c.Context(), uint(id), start, end)
	switch {
	case errors.Is(err, ErrLeagueNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrInvalidRange):
		return badRequest(c, err)
	case err != nil:
		l.Error("League matches query failed", zap.Uint64("league_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
	return c.JSON(orEmpty(matches))
}

// HandleLeagues lists active leagues.
// @Summary List Leagues
// @Description Lists active leagues by name.
// @Tags schedule
// @Produce json
// @Success 200 {array} models.League
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /leagues [get]
func (h *Handler) HandleLeagues(c *fiber.Ctx) error {
	leagues, err := h.service.Leagues(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Leagues query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
	return c.JSON(leagues)
}

// HandleBroadcasters lists broadcasters.
// @Summary List Broadcasters
// @Description Lists every broadcaster in alphabetical order.
// @Tags schedule
// @Produce json
// @Success 200 {array} models.Broadcaster
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /broadcasters [get]
func (h *Handler) HandleBroadcasters(c *fiber.Ctx) error {
	broadcasters, err := h.service.Broadcasters(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Broadcasters query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
	return c.JSON(broadcasters)
}

func (h *Handler) respondMatches(c *fiber.Ctx, start, end time.Time) error {
	matches, err := h.service.Matches(c.Context(), start, end)
	if errors.Is(err, ErrInvalidRange) {
		return badRequest(c, err)
	}
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Matches query failed",
			zap.Time("start", start), zap.Time("end", end), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
	return c.JSON(orEmpty(matches))
}

// orEmpty keeps empty windows encoded as [] rather than null.
func orEmpty(matches []models.Match) []models.Match {
	if matches == nil {
		return []models.Match{}
	}
	return matches
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}
