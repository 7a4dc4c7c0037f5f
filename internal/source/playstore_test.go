package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"app-update-bot/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayStoreFetch(t *testing.T) {
	var gotPackage, gotCountry, gotLanguage string
	p := &PlayStore{
		PackageName: "org.telegram.messenger",
		Country:     "us",
		Language:    "en",
		Lookup: func(ctx context.Context, packageName, country, language string) (*PlayDetails, error) {
			gotPackage, gotCountry, gotLanguage = packageName, country, language
			return &PlayDetails{
				Version:       "11.0.0",
				Updated:       time.Unix(1704164645, 0),
				RecentChanges: "bug fixes",
				Title:         "Telegram",
			}, nil
		},
	}

	got, err := p.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "org.telegram.messenger", gotPackage)
	assert.Equal(t, "us", gotCountry)
	assert.Equal(t, "en", gotLanguage)
	assert.Equal(t, types.FetchResult{
		Identity:    "11.0.0",
		Timestamp:   "2024-01-02T03:04:05Z",
		Notes:       "bug fixes",
		DisplayName: "Telegram",
	}, got)
}

func TestPlayStoreFetchDefaults(t *testing.T) {
	p := &PlayStore{
		Lookup: func(ctx context.Context, packageName, country, language string) (*PlayDetails, error) {
			return &PlayDetails{Version: "1.0"}, nil
		},
	}

	got, err := p.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "No release notes", got.Notes)
	assert.Equal(t, "App", got.DisplayName)
	assert.Equal(t, "1970-01-01T00:00:00Z", got.Timestamp)
}

func TestPlayStoreLookupErrorIsAbsence(t *testing.T) {
	p := &PlayStore{
		Lookup: func(ctx context.Context, packageName, country, language string) (*PlayDetails, error) {
			return nil, errors.New("listing not found")
		},
	}

	_, err := p.Fetch(context.Background())

	assert.ErrorIs(t, err, types.ErrNoData)
}
