package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courtside/core/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrLeagueNotFound is returned for an unknown league id.
var ErrLeagueNotFound = errors.New("league not found")

// ErrInvalidRange is returned when a window does not end after it starts.
var ErrInvalidRange = errors.New("end must be after start")

// Service answers schedule queries.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
	loc    *time.Location
}

// NewService creates a schedule service. Week and month windows are computed
// in loc.
func NewService(db *gorm.DB, logger *zap.Logger, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{db: db, logger: logger, loc: loc}
}

// Location returns the zone calendar windows are computed in.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Matches returns the matches of active leagues in [start, end), oldest first,
// with teams, league and broadcasters loaded.
func (s *Service) Matches(ctx context.Context, start, end time.Time) ([]models.Match, error) {
	return s.matches(ctx, start, end, 0)
}

// LeagueMatches is Matches restricted to one league. Inactive leagues are
// reported as not found.
func (s *Service) LeagueMatches(ctx context.Context, leagueID uint, start, end time.Time) ([]models.Match, error) {
	var league models.League
	err := s.db.WithContext(ctx).Where("id = ? AND active = ?", leagueID, true).Take(&league).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLeagueNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find league %d: %w", leagueID, err)
	}
	return s.matches(ctx, start, end, leagueID)
}

func (s *Service) matches(ctx context.Context, start, end time.Time, leagueID uint) ([]models.Match, error) {
	if !end.After(start) {
		return nil, ErrInvalidRange
	}

	q := s.db.WithContext(ctx).
		Model(&models.Match{}).
		Joins("JOIN leagues ON leagues.id = matches.league_id AND leagues.active = ?", true).
		Where("matches.date_time >= ? AND matches.date_time < ?", start.UTC(), end.UTC()).
		Preload("HomeTeam").
		Preload("AwayTeam").
		Preload("League").
		Preload("Broadcasts", func(db *gorm.DB) *gorm.DB { return db.Order("match_broadcasts.id") }).
		Preload("Broadcasts.Broadcaster").
		Order("matches.date_time, matches.id")
	if leagueID != 0 {
		q = q.Where("matches.league_id = ?", leagueID)
	}

	var matches []models.Match
	if err := q.Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	return matches, nil
}

// Leagues returns the active leagues by name.
func (s *Service) Leagues(ctx context.Context) ([]models.League, error) {
	var leagues []models.League
	if err := s.db.WithContext(ctx).Where("active = ?", true).Order("name").Find(&leagues).Error; err != nil {
		return nil, fmt.Errorf("query leagues: %w", err)
	}
	return leagues, nil
}

// Broadcasters returns every broadcaster in alphabetical order.
func (s *Service) Broadcasters(ctx context.Context) ([]models.Broadcaster, error) {
	var broadcasters []models.Broadcaster
	if err := s.db.WithContext(ctx).Order("name").Find(&broadcasters).Error; err != nil {
		return nil, fmt.Errorf("query broadcasters: %w", err)
	}
	return broadcasters, nil
}

// WeekRange returns the Monday-to-Monday window containing day.
func (s *Service) WeekRange(day time.Time) (time.Time, time.Time) {
	d := day.In(s.loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, s.loc)
	offset := (int(start.Weekday()) + 6) % 7
	start = start.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7)
}

// MonthRange returns the window covering the given calendar month.
func (s *Service) MonthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, s.loc)
	return start, start.AddDate(0, 1, 0)
}
