package euroleague

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"courtside/core/models"
	"courtside/core/pipeline"
	"courtside/core/reconcile"
	"courtside/core/utils"
	"courtside/feature/sources/httpclient"
)

const (
	Name   = "euroleague"
	Prefix = "euroleague"
)

var competitionLeagues = map[string]string{
	"E": "EuroLeague",
	"U": "EuroCup",
}

type gamesResponse struct {
	Data []game `json:"data"`
}

type game struct {
	GameCode int       `json:"gameCode"`
	UTCDate  time.Time `json:"utcDate"`
	Played   bool      `json:"played"`
	Status   string    `json:"gameStatus"`
	Local    side      `json:"local"`
	Road     side      `json:"road"`
	Venue    struct {
		Name string `json:"name"`
	} `json:"venue"`
}

type side struct {
	Club struct {
		Code            string `json:"code"`
		Name            string `json:"name"`
		AbbreviatedName string `json:"abbreviatedName"`
		TVCode          string `json:"tvCode"`
		Images          struct {
			Crest string `json:"crest"`
		} `json:"images"`
	} `json:"club"`
	// Score is null before tip-off.
	Score any `json:"score"`
}

// Source reads EuroLeague and EuroCup games.
type Source struct {
	cfg    Config
	client *httpclient.Client
	now    func() time.Time
}

// New creates the Euroleague source.
func New(cfg Config, client *httpclient.Client) *Source {
	return &Source{cfg: cfg, client: client, now: time.Now}
}

func (s *Source) Name() string   { return Name }
func (s *Source) Prefix() string { return Prefix }

func (s *Source) gamesURL(competition string) string {
	return fmt.Sprintf("%s/v2/competitions/%s/seasons/%s%d/games",
		strings.TrimRight(s.cfg.BaseURL, "/"), competition, competition, s.cfg.Season)
}

// Fetch loads the first competition eagerly and the others while the
// sequence is consumed.
func (s *Source) Fetch(ctx context.Context) (iter.Seq2[reconcile.RawMatch, error], error) {
	if len(s.cfg.Competitions) == 0 {
		return nil, fmt.Errorf("euroleague: no competitions configured")
	}
	first, err := s.games(ctx, s.cfg.Competitions[0])
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	from := now.AddDate(0, 0, -s.cfg.DaysBehind)
	to := now.AddDate(0, 0, s.cfg.DaysAhead)

	return func(yield func(reconcile.RawMatch, error) bool) {
		for i, code := range s.cfg.Competitions {
			games := first
			if i > 0 {
				var err error
				if games, err = s.games(ctx, code); err != nil {
					yield(reconcile.RawMatch{}, fmt.Errorf("%w: %w", pipeline.ErrStreamBroken, err))
					return
				}
			}
			for _, g := range games {
				if g.UTCDate.Before(from) || g.UTCDate.After(to) {
					continue
				}
				if !yield(s.toRaw(code, g)) {
					return
				}
			}
		}
	}, nil
}

func (s *Source) games(ctx context.Context, competition string) ([]game, error) {
	var resp gamesResponse
	if err := s.client.GetJSON(ctx, s.gamesURL(competition), nil, &resp); err != nil {
		return nil, fmt.Errorf("euroleague %s games: %w", competition, err)
	}
	return resp.Data, nil
}

func (s *Source) toRaw(competition string, g game) (reconcile.RawMatch, error) {
	league, ok := competitionLeagues[competition]
	if !ok {
		return reconcile.RawMatch{}, fmt.Errorf("%w: unknown competition %q", reconcile.ErrInvalidRecord, competition)
	}

	raw := reconcile.RawMatch{
		SourcePrefix:     Prefix,
		NativeID:         fmt.Sprintf("%s%d-%d", competition, s.cfg.Season, g.GameCode),
		LeagueName:       league,
		HomeTeamName:     g.Local.Club.Name,
		AwayTeamName:     g.Road.Club.Name,
		HomeTeamShort:    g.Local.Club.TVCode,
		AwayTeamShort:    g.Road.Club.TVCode,
		HomeTeamLogo:     g.Local.Club.Images.Crest,
		AwayTeamLogo:     g.Road.Club.Images.Crest,
		DateTimeUTC:      g.UTCDate.UTC(),
		Status:           s.status(g),
		Venue:            g.Venue.Name,
		BroadcasterNames: s.cfg.Broadcasters,
	}
	if raw.Status.HasScore() {
		raw.HomeScore = utils.ToScore(g.Local.Score)
		raw.AwayScore = utils.ToScore(g.Road.Score)
	}
	return raw, nil
}

func (s *Source) status(g game) models.MatchStatus {
	if g.Played {
		return models.StatusFinished
	}
	if g.Status != "" {
		return reconcile.NormalizeStatus(g.Status)
	}
	return models.StatusScheduled
}
