package nba

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"courtside/core/models"
	"courtside/core/reconcile"
	"courtside/feature/sources/httpclient"
)

const (
	// Name is the source name.
	Name = "nba"
	// Prefix namespaces external ids, e.g. "nba-0022400061".
	Prefix = "nba"
	// League is the league every game belongs to.
	League = "NBA"

	logoURL = "https://cdn.nba.com/logos/nba/%d/global/L/logo.svg"
)

type scheduleResponse struct {
	LeagueSchedule struct {
		GameDates []struct {
			Games []game `json:"games"`
		} `json:"gameDates"`
	} `json:"leagueSchedule"`
}

type game struct {
	GameID          string    `json:"gameId"`
	GameDateTimeUTC time.Time `json:"gameDateTimeUTC"`
	GameStatus      int       `json:"gameStatus"`
	ArenaName       string    `json:"arenaName"`
	ArenaCity       string    `json:"arenaCity"`
	HomeTeam        team      `json:"homeTeam"`
	AwayTeam        team      `json:"awayTeam"`
}

type team struct {
	TeamID      int    `json:"teamId"`
	TeamName    string `json:"teamName"`
	TeamCity    string `json:"teamCity"`
	TeamTricode string `json:"teamTricode"`
	Score       int    `json:"score"`
}

func (t team) fullName() string {
	return strings.TrimSpace(t.TeamCity + " " + t.TeamName)
}

// Source reads the official NBA season schedule.
type Source struct {
	cfg    Config
	client *httpclient.Client
	now    func() time.Time
}

// New creates the NBA source.
func New(cfg Config, client *httpclient.Client) *Source {
	return &Source{cfg: cfg, client: client, now: time.Now}
}

func (s *Source) Name() string   { return Name }
func (s *Source) Prefix() string { return Prefix }

// Fetch downloads the schedule and yields the games inside the configured window.
func (s *Source) Fetch(ctx context.Context) (iter.Seq2[reconcile.RawMatch, error], error) {
	var resp scheduleResponse
	if err := s.client.GetJSON(ctx, s.cfg.URL, nil, &resp); err != nil {
		return nil, fmt.Errorf("nba schedule: %w", err)
	}

	now := s.now().UTC()
	from := now.AddDate(0, 0, -s.cfg.DaysBehind)
	to := now.AddDate(0, 0, s.cfg.DaysAhead)

	return func(yield func(reconcile.RawMatch, error) bool) {
		for _, day := range resp.LeagueSchedule.GameDates {
			for _, g := range day.Games {
				if g.GameDateTimeUTC.Before(from) || g.GameDateTimeUTC.After(to) {
					continue
				}
				if !yield(s.toRaw(g)) {
					return
				}
			}
		}
	}, nil
}

func (s *Source) toRaw(g game) (reconcile.RawMatch, error) {
	if g.GameID == "" || g.HomeTeam.TeamName == "" || g.AwayTeam.TeamName == "" {
		return reconcile.RawMatch{}, fmt.Errorf("%w: nba game %q lacks id or teams", reconcile.ErrInvalidRecord, g.GameID)
	}

	raw := reconcile.RawMatch{
		SourcePrefix:     Prefix,
		NativeID:         g.GameID,
		LeagueName:       League,
		HomeTeamName:     g.HomeTeam.fullName(),
		AwayTeamName:     g.AwayTeam.fullName(),
		HomeTeamShort:    g.HomeTeam.TeamTricode,
		AwayTeamShort:    g.AwayTeam.TeamTricode,
		DateTimeUTC:      g.GameDateTimeUTC.UTC(),
		Status:           status(g.GameStatus),
		Venue:            g.ArenaName,
		BroadcasterNames: s.cfg.Broadcasters,
	}
	if g.HomeTeam.TeamID != 0 {
		raw.HomeTeamLogo = fmt.Sprintf(logoURL, g.HomeTeam.TeamID)
	}
	if g.AwayTeam.TeamID != 0 {
		raw.AwayTeamLogo = fmt.Sprintf(logoURL, g.AwayTeam.TeamID)
	}
	if raw.Status.HasScore() {
		home, away := g.HomeTeam.Score, g.AwayTeam.Score
		raw.HomeScore, raw.AwayScore = &home, &away
	}
	return raw, nil
}

func status(code int) models.MatchStatus {
	switch code {
	case 2:
		return models.StatusLive
	case 3:
		return models.StatusFinished
	default:
		return models.StatusScheduled
	}
}
