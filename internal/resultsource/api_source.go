package resultsource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/racedash/internal/models"
)

// RemoteResultsSource fetches finishing positions from the external
// results API. It sits last in the priority order: slower and rate
// limited, but it fills in when none of the local tables have settled.
type RemoteResultsSource struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	logger     *logrus.Logger
}

// resultsAPIRow is the wire shape of one result row.
type resultsAPIRow struct {
	RaceID   string `json:"race_id"`
	HorseID  string `json:"horse_id,omitempty"`
	Horse    string `json:"horse"`
	Position int    `json:"position"`
}

// NewRemoteResultsSource creates the results API source.
func NewRemoteResultsSource(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, logger *logrus.Logger) *RemoteResultsSource {
	return &RemoteResultsSource{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		logger:     logger,
	}
}

func (s *RemoteResultsSource) Name() string {
	return "results_api"
}

// FetchPositions retrieves confirmed positions for one batch of race
// ids. The API caps the id list per request, which is why the resolver
// batches.
func (s *RemoteResultsSource) FetchPositions(ctx context.Context, raceIDs []string) ([]models.ResultRow, error) {
	endpoint := fmt.Sprintf("%s/results?race_ids=%s", s.baseURL, url.QueryEscape(strings.Join(raceIDs, ",")))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create results request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch results: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("results API returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiRows []resultsAPIRow
	if err := json.NewDecoder(resp.Body).Decode(&apiRows); err != nil {
		return nil, fmt.Errorf("failed to parse results response: %w", err)
	}

	rows := make([]models.ResultRow, 0, len(apiRows))
	for _, row := range apiRows {
		if row.Position <= 0 {
			continue
		}
		rows = append(rows, models.ResultRow{
			RaceID:    row.RaceID,
			HorseID:   row.HorseID,
			HorseName: row.Horse,
			Position:  row.Position,
		})
	}

	return rows, nil
}
