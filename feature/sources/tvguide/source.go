package tvguide

import (
	"bytes"
	"context"
	"fmt"
	"iter"
	"regexp"
	"strings"
	"time"

	"courtside/core/reconcile"
	"courtside/feature/sources/httpclient"

	"github.com/PuerkitoBio/goquery"
)

const (
	Name   = "tvguide"
	Prefix = "tvguide-scraped"
)

// Guide markup: one .guide-day[data-date] per day holding one
// article.guide-program per airing.
const (
	selDay     = ".guide-day"
	selProgram = "article.guide-program"
	selTime    = ".program-time"
	selChannel = ".program-channel"
	selLeague  = ".program-league"
	selTitle   = ".program-title"
)

var titleSeparator = regexp.MustCompile(`\s+(?:-|–|/|vs\.?|contre)\s+`)

// Source scrapes basketball airings from a TV guide page. Its ids are
// synthetic, so its matches are purged and recreated on every run.
type Source struct {
	cfg    Config
	client *httpclient.Client
	loc    *time.Location
}

// New creates the scraper. An unknown timezone falls back to UTC.
func New(cfg Config, client *httpclient.Client) *Source {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return &Source{cfg: cfg, client: client, loc: loc}
}

func (s *Source) Name() string         { return Name }
func (s *Source) Prefix() string       { return Prefix }
func (s *Source) PurgeBeforeRun() bool { return true }

type airing struct {
	raw reconcile.RawMatch
	err error
}

// Fetch downloads the guide and yields one record per fixture, with every
// channel airing it.
func (s *Source) Fetch(ctx context.Context) (iter.Seq2[reconcile.RawMatch, error], error) {
	body, err := s.client.Get(ctx, s.cfg.URL, map[string]string{"Accept": "text/html"})
	if err != nil {
		return nil, fmt.Errorf("tv guide: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse tv guide: %w", err)
	}

	airings := s.parse(doc)
	return func(yield func(reconcile.RawMatch, error) bool) {
		for _, a := range airings {
			if !yield(a.raw, a.err) {
				return
			}
		}
	}, nil
}

func (s *Source) parse(doc *goquery.Document) []airing {
	var out []airing
	index := map[string]int{}

	doc.Find(selDay).Each(func(_ int, day *goquery.Selection) {
		date := strings.TrimSpace(day.AttrOr("data-date", ""))

		day.Find(selProgram).Each(func(_ int, p *goquery.Selection) {
			clock := strings.TrimSpace(p.Find(selTime).First().Text())
			channel := strings.TrimSpace(p.Find(selChannel).First().Text())
			league := strings.TrimSpace(p.Find(selLeague).First().Text())
			title := strings.Join(strings.Fields(p.Find(selTitle).First().Text()), " ")

			when, err := time.ParseInLocation("2006-01-02 15:04", date+" "+strings.Replace(clock, "h", ":", 1), s.loc)
			if err != nil {
				out = append(out, airing{err: fmt.Errorf("%w: airing %q at %q %q", reconcile.ErrInvalidRecord, title, date, clock)})
				return
			}
			teams := titleSeparator.Split(title, 2)
			if len(teams) != 2 || league == "" {
				out = append(out, airing{err: fmt.Errorf("%w: airing %q has no fixture", reconcile.ErrInvalidRecord, title)})
				return
			}

			raw := reconcile.RawMatch{
				SourcePrefix: Prefix,
				LeagueName:   league,
				HomeTeamName: strings.TrimSpace(teams[0]),
				AwayTeamName: strings.TrimSpace(teams[1]),
				DateTimeUTC:  when.UTC(),
			}
			key := raw.ExternalID()
			if i, ok := index[key]; ok {
				if channel != "" {
					out[i].raw.BroadcasterNames = append(out[i].raw.BroadcasterNames, channel)
				}
				return
			}
			if channel != "" {
				raw.BroadcasterNames = []string{channel}
			}
			index[key] = len(out)
			out = append(out, airing{raw: raw})
		})
	})
	return out
}
