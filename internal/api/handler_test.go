package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wgomg/versa/internal/config"
	"github.com/wgomg/versa/internal/poems"
	"github.com/wgomg/versa/internal/scoring"
	"github.com/wgomg/versa/internal/utils"
)

type stubScorer struct {
	result *scoring.Result
	err    error
	ready  bool
}

func (s *stubScorer) Analyze(ctx context.Context, text string) (*scoring.Result, error) {
	if strings.TrimSpace(text) == "" {
		return &scoring.Result{Breakdown: &scoring.Breakdown{}, Error: scoring.ErrEmptyPoem.Error()}, scoring.ErrEmptyPoem
	}
	return s.result, s.err
}

func (s *stubScorer) Ready() bool {
	return s.ready
}

type stubStore struct {
	saved []poems.Poem
	err   error
}

func (s *stubStore) Create(ctx context.Context, poem *poems.Poem) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.saved = append(s.saved, *poem)
	return "poem-1", nil
}

func (s *stubStore) Top(ctx context.Context, limit int) ([]poems.Poem, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.saved) > limit {
		return s.saved[:limit], nil
	}
	return s.saved, nil
}

func newTestServer(t *testing.T, scorer *stubScorer, store *stubStore) *httptest.Server {
	t.Helper()

	logger := utils.NewDiscardLogger()
	cfg := &config.Config{Store: config.StoreConfig{LeaderboardLimit: 2}}
	handler := NewHandler(logger, scorer, poems.NewService(logger, scorer, store, 50), cfg)

	mux := http.NewServeMux()
	RegisterRoutes(mux, handler)

	srv := httptest.NewServer(WithRequestID(logger, mux))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()

	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()

	var out map[string]any
	json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func goodResult() *scoring.Result {
	return &scoring.Result{
		Score:     75,
		Breakdown: &scoring.Breakdown{WordDiversity: 100, StructuralDensity: 13, Sentiment: 85, ThemeMatch: 100, Cohesion: 50},
	}
}

func TestHandleScore(t *testing.T) {
	srv := newTestServer(t, &stubScorer{result: goodResult()}, &stubStore{})

	resp, body := postJSON(t, srv.URL+"/score", `{"poem":"the moon and the sea"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
	if body["score"] != float64(75) {
		t.Errorf("score = %v", body["score"])
	}
	breakdown := body["breakdown"].(map[string]any)
	if breakdown["themeMatch"] != float64(100) || breakdown["structuralDensity"] != float64(13) {
		t.Errorf("breakdown = %v", breakdown)
	}
}

func TestHandleScoreStatuses(t *testing.T) {
	tests := []struct {
		name   string
		scorer *stubScorer
		body   string
		want   int
	}{
		{"empty poem", &stubScorer{}, `{"poem":"  "}`, http.StatusBadRequest},
		{"provider down", &stubScorer{
			result: &scoring.Result{Error: "model loading failed"},
			err:    scoring.ErrProviderUnavailable,
		}, `{"poem":"moon"}`, http.StatusServiceUnavailable},
		{"bad json", &stubScorer{}, `{"poem":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.scorer, &stubStore{})
			resp, _ := postJSON(t, srv.URL+"/score", tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestHandleScoreRequiresJSON(t *testing.T) {
	srv := newTestServer(t, &stubScorer{result: goodResult()}, &stubStore{})

	resp, err := http.Post(srv.URL+"/score", "text/plain", strings.NewReader("moon"))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestHandleSubmit(t *testing.T) {
	store := &stubStore{}
	srv := newTestServer(t, &stubScorer{result: goodResult()}, store)

	resp, body := postJSON(t, srv.URL+"/poems", `{"author":"Aurora","poem":"Dawn breaks across the land"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["id"] != "poem-1" || body["message"] != "That was lovely, Aurora! You got 75 out of 100!" {
		t.Errorf("body = %v", body)
	}
	if len(store.saved) != 1 || store.saved[0].Title != poems.DefaultTitle {
		t.Errorf("saved = %+v", store.saved)
	}
}

func TestHandleSubmitStatuses(t *testing.T) {
	tests := []struct {
		name   string
		scorer *stubScorer
		store  *stubStore
		body   string
		want   int
	}{
		{"missing author", &stubScorer{result: goodResult()}, &stubStore{}, `{"poem":"moon"}`, http.StatusBadRequest},
		{"provider down", &stubScorer{
			result: &scoring.Result{Error: "model loading failed"},
			err:    scoring.ErrProviderUnavailable,
		}, &stubStore{}, `{"author":"a","poem":"moon"}`, http.StatusServiceUnavailable},
		{"store down", &stubScorer{result: goodResult()}, &stubStore{err: errors.New("down")}, `{"author":"a","poem":"moon"}`, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.scorer, tt.store)
			resp, _ := postJSON(t, srv.URL+"/poems", tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestHandleTop(t *testing.T) {
	store := &stubStore{saved: []poems.Poem{
		{ID: "1", Author: "a", Title: "x", Poem: "p", Score: 90},
		{ID: "2", Author: "b", Title: "y", Poem: "q", Score: 80},
		{ID: "3", Author: "c", Title: "z", Poem: "r", Score: 70},
	}}
	srv := newTestServer(t, &stubScorer{}, store)

	tests := []struct {
		query string
		want  int
		count int
	}{
		{"", http.StatusOK, 2},
		{"?limit=3", http.StatusOK, 3},
		{"?limit=0", http.StatusBadRequest, 0},
		{"?limit=abc", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		resp, err := http.Get(srv.URL + "/poems/top" + tt.query)
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		var body TopResponse
		json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()

		if resp.StatusCode != tt.want {
			t.Errorf("%q: status = %d, want %d", tt.query, resp.StatusCode, tt.want)
		}
		if len(body.Poems) != tt.count {
			t.Errorf("%q: %d poems, want %d", tt.query, len(body.Poems), tt.count)
		}
	}
}

func TestHandleSchema(t *testing.T) {
	srv := newTestServer(t, &stubScorer{}, &stubStore{})

	resp, err := http.Get(srv.URL + "/schema")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	var body SchemaResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}

	props, ok := body.Submission["properties"].(map[string]any)
	if !ok {
		t.Fatalf("submission schema has no properties: %v", body.Submission)
	}
	for _, field := range []string{"author", "title", "poem"} {
		if _, ok := props[field]; !ok {
			t.Errorf("submission schema missing %q", field)
		}
	}
	if _, ok := body.ScoreResult["properties"].(map[string]any)["breakdown"]; !ok {
		t.Error("result schema missing breakdown")
	}
}

func TestHealthAndRequestIDPassthrough(t *testing.T) {
	srv := newTestServer(t, &stubScorer{ready: true}, &stubStore{})

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q", got)
	}
	var body HealthResponse
	json.NewDecoder(resp.Body).Decode(&body)
	if body.Status != "ok" || !body.EmbedderReady {
		t.Errorf("body = %+v", body)
	}
}
