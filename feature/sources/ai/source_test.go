package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"courtside/core/models"
	"courtside/core/pipeline"
	"courtside/core/reconcile"
	"courtside/feature/sources/httpclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSecrets map[string]string

func (s staticSecrets) Lookup(_ context.Context, key string) (string, bool, error) {
	v, ok := s[key]
	return v, ok, nil
}

const page = `<html><head><style>body{}</style><script>var x = 1;</script></head>
<body><h1>Programme basket</h1><p>Mercredi 15 janvier, 20h30 : Paris Basketball - Real Madrid sur beIN SPORTS 1</p></body></html>`

const answer = "```json\n" + `[
  {"league": "EuroLeague", "home_team": "Paris Basketball", "away_team": "Real Madrid",
   "date_time": "2025-01-15T20:30:00", "status": "scheduled", "home_score": null, "away_score": null,
   "venue": "Adidas Arena", "broadcasters": ["beIN SPORTS 1", ""]},
  {"league": "Betclic ELITE", "home_team": "ASVEL", "away_team": "Monaco",
   "date_time": "2025-01-14T19:00:00Z", "status": "final", "home_score": "88", "away_score": 91,
   "broadcasters": "La Chaine L'Equipe"},
  {"league": "Betclic ELITE", "home_team": "Nanterre", "away_team": "Dijon", "date_time": "soon"}
]` + "\n```"

func newServer(t *testing.T, pageStatus int) (*httptest.Server, *string) {
	t.Helper()
	var sentPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/page"):
			if r.URL.Path == "/page2" && pageStatus != http.StatusOK {
				w.WriteHeader(pageStatus)
				return
			}
			_, _ = w.Write([]byte(page))
		case r.URL.Path == "/models/gemini-test:generateContent":
			assert.Equal(t, "key", r.Header.Get("x-goog-api-key"))
			var req generateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			sentPrompt = req.Contents[0].Parts[0].Text
			_ = json.NewEncoder(w).Encode(map[string]any{
				"candidates": []any{map[string]any{
					"content": map[string]any{"parts": []any{map[string]any{"text": answer}}},
				}},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &sentPrompt
}

func newSource(srv *httptest.Server, pages ...string) *Source {
	src := New(Config{Endpoint: srv.URL, Model: "gemini-test", Pages: pages, MaxChars: 1000},
		httpclient.New(httpclient.Options{MaxRetries: -1}), staticSecrets{APIKey: "key"})
	src.loc = time.FixedZone("CET", 3600)
	return src
}

func TestFetch(t *testing.T) {
	srv, sentPrompt := newServer(t, http.StatusOK)
	src := newSource(srv, srv.URL+"/page1")

	assert.Equal(t, reconcile.ModeReplace, src.AttachMode())
	assert.Equal(t, []string{APIKey}, src.RequiredKeys())

	seq, err := src.Fetch(context.Background())
	require.NoError(t, err)

	var records []reconcile.RawMatch
	var errs []error
	for raw, err := range seq {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		records = append(records, raw)
	}

	assert.Contains(t, *sentPrompt, "Paris Basketball - Real Madrid sur beIN SPORTS 1")
	assert.NotContains(t, *sentPrompt, "var x")

	require.Len(t, records, 2)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], reconcile.ErrInvalidRecord)

	paris := records[0]
	assert.Equal(t, time.Date(2025, 1, 15, 19, 30, 0, 0, time.UTC), paris.DateTimeUTC)
	assert.Equal(t, models.StatusScheduled, paris.Status)
	assert.Nil(t, paris.HomeScore)
	assert.Equal(t, []string{"beIN SPORTS 1"}, paris.BroadcasterNames)
	assert.Equal(t, "Adidas Arena", paris.Venue)

	asvel := records[1]
	assert.Equal(t, models.StatusFinished, asvel.Status)
	assert.Equal(t, 88, *asvel.HomeScore)
	assert.Equal(t, 91, *asvel.AwayScore)
	assert.Equal(t, []string{"La Chaine L'Equipe"}, asvel.BroadcasterNames)
}

func TestLaterPageFailureBreaksStream(t *testing.T) {
	srv, _ := newServer(t, http.StatusInternalServerError)
	seq, err := newSource(srv, srv.URL+"/page1", srv.URL+"/page2").Fetch(context.Background())
	require.NoError(t, err)

	var last error
	for _, err := range seq {
		if err != nil {
			last = err
		}
	}
	assert.ErrorIs(t, last, pipeline.ErrStreamBroken)
}

func TestFetchRequiresPagesAndKey(t *testing.T) {
	client := httpclient.New(httpclient.Options{})

	_, err := New(Config{}, client, staticSecrets{APIKey: "key"}).Fetch(context.Background())
	assert.ErrorContains(t, err, "no pages")

	_, err = New(Config{Pages: []string{"http://example.invalid"}}, client, staticSecrets{}).Fetch(context.Background())
	assert.ErrorContains(t, err, APIKey)
}

func TestParseAnswer(t *testing.T) {
	items, err := parseAnswer("[]")
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = parseAnswer("Sorry, I cannot help with that.")
	assert.Error(t, err)
}
