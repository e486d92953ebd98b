package poems

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/wgomg/versa/internal/config"
	"github.com/wgomg/versa/internal/utils"
	"github.com/wgomg/versa/internal/utils/httputils"
)

// FirebaseStore keeps poems in a Firebase Realtime Database through its
// REST interface.
type FirebaseStore struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
	logger     *utils.Logger
}

func NewFirebaseStore(cfg *config.Config, logger *utils.Logger) (*FirebaseStore, error) {
	if cfg.Firebase.URL == "" {
		return nil, fmt.Errorf("FIREBASE_URL is required")
	}

	return &FirebaseStore{
		baseURL:   cfg.Firebase.URL,
		authToken: cfg.Firebase.AuthToken,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.App.HttpTimeoutSeconds) * time.Second,
		},
		logger: logger,
	}, nil
}

func (s *FirebaseStore) Create(ctx context.Context, poem *Poem) (string, error) {
	reqID := utils.RequestID(ctx)

	record := *poem
	record.ID = ""
	body, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to marshal poem: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.poemsURL(nil), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	s.logger.Debug(reqID, "Saving poem %q by %s (score=%d)", poem.Title, poem.Author, poem.Score)
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to save poem: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", s.handleAPIError(resp)
	}

	var created struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if created.Name == "" {
		return "", fmt.Errorf("firebase returned no key for the new poem")
	}

	s.logger.Debug(reqID, "Poem saved with key %s", created.Name)
	return created.Name, nil
}

func (s *FirebaseStore) Top(ctx context.Context, limit int) ([]Poem, error) {
	reqID := utils.RequestID(ctx)

	query := url.Values{}
	query.Set("orderBy", `"score"`)
	query.Set("limitToLast", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.poemsURL(query), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	s.logger.Debug(reqID, "Fetching top %d poems from %s", limit, s.baseURL)
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch poems: %w", err)
	}
	defer resp.Body.Close()

	if _, err := httputils.LogResponseBody(resp, s.logger, reqID); err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, s.handleAPIError(resp)
	}

	// an empty database answers with null
	var records map[string]Poem
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	keys := make([]string, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	poems := make([]Poem, 0, len(keys))
	for _, k := range keys {
		p := records[k]
		p.ID = k
		if p.Title == "" {
			p.Title = DefaultTitle
		}
		poems = append(poems, p)
	}
	sort.SliceStable(poems, func(i, j int) bool {
		return poems[i].Score > poems[j].Score
	})

	if len(poems) > limit {
		poems = poems[:limit]
	}

	s.logger.Debug(reqID, "Found %d poems", len(poems))
	return poems, nil
}

func (s *FirebaseStore) poemsURL(query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	if s.authToken != "" {
		query.Set("auth", s.authToken)
	}

	u := s.baseURL + "/poems.json"
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (s *FirebaseStore) handleAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	message := http.StatusText(resp.StatusCode)
	var fbErr struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &fbErr) == nil && fbErr.Error != "" {
		message = fbErr.Error
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Body:       string(body),
	}
}
