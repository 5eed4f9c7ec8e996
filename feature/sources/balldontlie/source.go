package balldontlie

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"strconv"
	"strings"
	"time"

	"courtside/core/models"
	"courtside/core/pipeline"
	"courtside/core/reconcile"
	"courtside/feature/sources/httpclient"
)

const (
	Name   = "balldontlie"
	Prefix = "bdl"
	League = "NBA"

	// APIKey is the settings key holding the API token.
	APIKey = "BALLDONTLIE_API_KEY"
)

type gamesResponse struct {
	Data []game `json:"data"`
	Meta struct {
		NextCursor *int `json:"next_cursor"`
	} `json:"meta"`
}

type game struct {
	ID               int    `json:"id"`
	Date             string `json:"date"`
	Datetime         string `json:"datetime"`
	Status           string `json:"status"`
	Period           int    `json:"period"`
	HomeTeamScore    int    `json:"home_team_score"`
	VisitorTeamScore int    `json:"visitor_team_score"`
	HomeTeam         team   `json:"home_team"`
	VisitorTeam      team   `json:"visitor_team"`
}

type team struct {
	ID           int    `json:"id"`
	FullName     string `json:"full_name"`
	Abbreviation string `json:"abbreviation"`
}

// Source pages through the balldontlie games endpoint.
type Source struct {
	cfg     Config
	client  *httpclient.Client
	secrets pipeline.Secrets
	now     func() time.Time
}

// New creates the balldontlie source. The API key is resolved through
// secrets on every Fetch.
func New(cfg Config, client *httpclient.Client, secrets pipeline.Secrets) *Source {
	return &Source{cfg: cfg, client: client, secrets: secrets, now: time.Now}
}

func (s *Source) Name() string           { return Name }
func (s *Source) Prefix() string         { return Prefix }
func (s *Source) RequiredKeys() []string { return []string{APIKey} }

// Fetch requests the first page eagerly. Later pages are requested lazily;
// a failing page ends the stream with pipeline.ErrStreamBroken.
func (s *Source) Fetch(ctx context.Context) (iter.Seq2[reconcile.RawMatch, error], error) {
	key, ok, err := s.secrets.Lookup(ctx, APIKey)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", APIKey, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s is not configured", APIKey)
	}
	headers := map[string]string{"Authorization": key}

	page, err := s.page(ctx, headers, nil)
	if err != nil {
		return nil, err
	}

	return func(yield func(reconcile.RawMatch, error) bool) {
		for {
			for _, g := range page.Data {
				if !yield(toRaw(g, s.cfg.Broadcasters)) {
					return
				}
			}
			cursor := page.Meta.NextCursor
			if cursor == nil {
				return
			}
			if page, err = s.page(ctx, headers, cursor); err != nil {
				yield(reconcile.RawMatch{}, fmt.Errorf("%w: %w", pipeline.ErrStreamBroken, err))
				return
			}
		}
	}, nil
}

func (s *Source) page(ctx context.Context, headers map[string]string, cursor *int) (*gamesResponse, error) {
	today := s.now().UTC()
	q := url.Values{}
	q.Set("start_date", today.AddDate(0, 0, -s.cfg.DaysBehind).Format(time.DateOnly))
	q.Set("end_date", today.AddDate(0, 0, s.cfg.DaysAhead).Format(time.DateOnly))
	q.Set("per_page", strconv.Itoa(s.cfg.PerPage))
	if cursor != nil {
		q.Set("cursor", strconv.Itoa(*cursor))
	}

	var resp gamesResponse
	endpoint := strings.TrimRight(s.cfg.BaseURL, "/") + "/games?" + q.Encode()
	if err := s.client.GetJSON(ctx, endpoint, headers, &resp); err != nil {
		return nil, fmt.Errorf("balldontlie games: %w", err)
	}
	return &resp, nil
}

func toRaw(g game, broadcasters []string) (reconcile.RawMatch, error) {
	when, err := kickoff(g)
	if err != nil {
		return reconcile.RawMatch{}, fmt.Errorf("%w: game %d: %w", reconcile.ErrInvalidRecord, g.ID, err)
	}

	raw := reconcile.RawMatch{
		SourcePrefix:     Prefix,
		NativeID:         strconv.Itoa(g.ID),
		LeagueName:       League,
		HomeTeamName:     g.HomeTeam.FullName,
		AwayTeamName:     g.VisitorTeam.FullName,
		HomeTeamShort:    g.HomeTeam.Abbreviation,
		AwayTeamShort:    g.VisitorTeam.Abbreviation,
		DateTimeUTC:      when,
		Status:           status(g.Status),
		BroadcasterNames: broadcasters,
	}
	if raw.Status.HasScore() {
		home, away := g.HomeTeamScore, g.VisitorTeamScore
		raw.HomeScore, raw.AwayScore = &home, &away
	}
	return raw, nil
}

// status maps "Final", a tip-off timestamp, or a period label such as
// "2nd Qtr".
func status(s string) models.MatchStatus {
	s = strings.TrimSpace(s)
	switch {
	case strings.EqualFold(s, "final"):
		return models.StatusFinished
	case s == "":
		return models.StatusScheduled
	}
	if _, err := time.Parse(time.RFC3339, s); err == nil {
		return models.StatusScheduled
	}
	return models.StatusLive
}

func kickoff(g game) (time.Time, error) {
	for _, v := range []string{g.Datetime, g.Status} {
		if t, err := time.Parse(time.RFC3339, strings.TrimSpace(v)); err == nil {
			return t.UTC(), nil
		}
	}
	d, err := time.Parse(time.DateOnly, g.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("no usable date")
	}
	return d.UTC(), nil
}
