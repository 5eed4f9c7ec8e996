package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"strings"
	"time"

	"courtside/core/pipeline"
	"courtside/core/reconcile"
	"courtside/core/utils"
	"courtside/feature/sources/httpclient"

	"github.com/PuerkitoBio/goquery"
)

const (
	Name   = "ai"
	Prefix = "ai"

	// APIKey is the settings key holding the Gemini API key.
	APIKey = "GEMINI_API_KEY"
)

const prompt = `Extract every basketball match listed in the page text below.
Answer with a JSON array only. Each element has the keys:
"league", "home_team", "away_team", "date_time" (ISO 8601, local time if no offset is shown),
"status" (scheduled, live or finished), "home_score", "away_score" (numbers or null),
"venue" and "broadcasters" (array of TV channel names).
Use an empty array when there are no matches.

Page text:
`

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Source extracts matches from free-form schedule pages with Gemini.
// It re-derives the broadcaster set of its matches on every run.
type Source struct {
	cfg     Config
	client  *httpclient.Client
	secrets pipeline.Secrets
	loc     *time.Location
}

// New creates the source. An unknown timezone falls back to UTC.
func New(cfg Config, client *httpclient.Client, secrets pipeline.Secrets) *Source {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return &Source{cfg: cfg, client: client, secrets: secrets, loc: loc}
}

func (s *Source) Name() string                     { return Name }
func (s *Source) Prefix() string                   { return Prefix }
func (s *Source) RequiredKeys() []string           { return []string{APIKey} }
func (s *Source) AttachMode() reconcile.AttachMode { return reconcile.ModeReplace }

// Fetch extracts the first page eagerly and the others while the sequence
// is consumed.
func (s *Source) Fetch(ctx context.Context) (iter.Seq2[reconcile.RawMatch, error], error) {
	if len(s.cfg.Pages) == 0 {
		return nil, fmt.Errorf("ai: no pages configured")
	}
	key, ok, err := s.secrets.Lookup(ctx, APIKey)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", APIKey, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s is not configured", APIKey)
	}

	first, err := s.extract(ctx, key, s.cfg.Pages[0])
	if err != nil {
		return nil, err
	}

	return func(yield func(reconcile.RawMatch, error) bool) {
		for i, page := range s.cfg.Pages {
			items := first
			if i > 0 {
				var err error
				if items, err = s.extract(ctx, key, page); err != nil {
					yield(reconcile.RawMatch{}, fmt.Errorf("%w: %w", pipeline.ErrStreamBroken, err))
					return
				}
			}
			for _, item := range items {
				if !yield(s.toRaw(item)) {
					return
				}
			}
		}
	}, nil
}

func (s *Source) extract(ctx context.Context, key, page string) ([]map[string]any, error) {
	text, err := s.pageText(ctx, page)
	if err != nil {
		return nil, err
	}

	req := generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt + text}}}},
		GenerationConfig: generationConfig{Temperature: 0, ResponseMimeType: "application/json"},
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(s.cfg.Endpoint, "/"), s.cfg.Model)

	var resp generateResponse
	if err := s.client.PostJSON(ctx, endpoint, map[string]string{"x-goog-api-key": key}, req, &resp); err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini: empty response for %s", page)
	}

	var answer strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		answer.WriteString(p.Text)
	}
	items, err := parseAnswer(answer.String())
	if err != nil {
		return nil, fmt.Errorf("gemini answer for %s: %w", page, err)
	}
	return items, nil
}

func (s *Source) pageText(ctx context.Context, page string) (string, error) {
	body, err := s.client.Get(ctx, page, map[string]string{"Accept": "text/html"})
	if err != nil {
		return "", fmt.Errorf("page %s: %w", page, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse page %s: %w", page, err)
	}
	doc.Find("script, style, noscript, svg").Remove()

	text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	if s.cfg.MaxChars > 0 && len(text) > s.cfg.MaxChars {
		text = strings.ToValidUTF8(text[:s.cfg.MaxChars], "")
	}
	return text, nil
}

// parseAnswer decodes the model's JSON array, tolerating a Markdown fence.
func parseAnswer(answer string) ([]map[string]any, error) {
	answer = strings.TrimSpace(answer)
	answer = strings.TrimPrefix(answer, "```json")
	answer = strings.TrimPrefix(answer, "```")
	answer = strings.TrimSuffix(answer, "```")
	answer = strings.TrimSpace(answer)

	dec := json.NewDecoder(strings.NewReader(answer))
	dec.UseNumber()
	var items []map[string]any
	if err := dec.Decode(&items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Source) toRaw(item map[string]any) (reconcile.RawMatch, error) {
	when, err := s.parseTime(utils.ToString(item["date_time"]))
	if err != nil {
		return reconcile.RawMatch{}, fmt.Errorf("%w: %w", reconcile.ErrInvalidRecord, err)
	}

	raw := reconcile.RawMatch{
		SourcePrefix:     Prefix,
		LeagueName:       utils.ToString(item["league"]),
		HomeTeamName:     utils.ToString(item["home_team"]),
		AwayTeamName:     utils.ToString(item["away_team"]),
		DateTimeUTC:      when,
		Status:           reconcile.NormalizeStatus(utils.ToString(item["status"])),
		Venue:            utils.ToString(item["venue"]),
		BroadcasterNames: utils.ToStrings(item["broadcasters"]),
	}
	if raw.Status.HasScore() {
		raw.HomeScore = utils.ToScore(item["home_score"])
		raw.AwayScore = utils.ToScore(item["away_score"])
	}
	return raw, nil
}

var localLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02 15:04"}

func (s *Source) parseTime(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, v, s.loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unreadable date %q", v)
}
