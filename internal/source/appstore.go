package source

import (
	"context"
	"encoding/json"
	"net/http"

	"app-update-bot/internal/types"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// AppStore queries the iTunes lookup API.
type AppStore struct {
	URL    string
	Client *http.Client
}

type lookupResponse struct {
	ResultCount int `json:"resultCount"`
	Results     []struct {
		Version                   string  `json:"version"`
		CurrentVersionReleaseDate string  `json:"currentVersionReleaseDate"`
		ReleaseNotes              *string `json:"releaseNotes"`
		TrackName                 string  `json:"trackName"`
	} `json:"results"`
}

func (a *AppStore) Fetch(ctx context.Context) (types.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.URL, nil)
	if err != nil {
		return types.FetchResult{}, errors.Wrap(err, "could not build lookup request")
	}

	resp, err := httpClient(a.Client).Do(req)
	if err != nil {
		return types.FetchResult{}, errors.Wrap(err, "could not query lookup API")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Debugf("lookup API returned status %d", resp.StatusCode)
		return types.FetchResult{}, types.ErrNoData
	}

	// The lookup API answers with Content-Type text/javascript.
	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return types.FetchResult{}, errors.Wrap(err, "could not decode lookup response")
	}

	if body.ResultCount == 0 || len(body.Results) == 0 {
		return types.FetchResult{}, types.ErrNoData
	}

	app := body.Results[0]
	if app.Version == "" {
		return types.FetchResult{}, types.ErrNoData
	}

	result := types.FetchResult{
		Identity:    app.Version,
		Timestamp:   app.CurrentVersionReleaseDate,
		Notes:       "No release notes.",
		DisplayName: app.TrackName,
	}
	if app.ReleaseNotes != nil {
		result.Notes = *app.ReleaseNotes
	}
	if result.Timestamp == "" {
		result.Timestamp = "N/A"
	}
	if result.DisplayName == "" {
		result.DisplayName = "App"
	}
	return result, nil
}
