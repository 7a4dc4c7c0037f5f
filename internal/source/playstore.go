package source

import (
	"context"
	"time"

	"app-update-bot/internal/types"
	"app-update-bot/lib/helpers"

	"github.com/n0madic/google-play-scraper/pkg/app"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// PlayDetails is the subset of a Google Play listing the bot uses.
type PlayDetails struct {
	Version       string
	Updated       time.Time
	RecentChanges string
	Title         string
}

// PlayLookup loads a listing by package name.
type PlayLookup func(ctx context.Context, packageName, country, language string) (*PlayDetails, error)

// PlayStore scrapes the Google Play listing of a package.
type PlayStore struct {
	PackageName string
	Country     string
	Language    string
	Lookup      PlayLookup
}

// ScrapePlayStore is the default PlayLookup.
func ScrapePlayStore(ctx context.Context, packageName, country, language string) (*PlayDetails, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a := app.New(packageName, app.Options{
		Country:  country,
		Language: language,
	})
	if err := a.LoadDetails(); err != nil {
		return nil, errors.Wrapf(err, "could not load details of %s", packageName)
	}

	return &PlayDetails{
		Version:       a.Version,
		Updated:       a.Updated,
		RecentChanges: a.RecentChanges,
		Title:         a.Title,
	}, nil
}

// Fetch never reports failures; lookup errors are logged and treated as
// absence.
func (p *PlayStore) Fetch(ctx context.Context) (types.FetchResult, error) {
	lookup := p.Lookup
	if lookup == nil {
		lookup = ScrapePlayStore
	}

	details, err := lookup(ctx, p.PackageName, p.Country, p.Language)
	if err != nil {
		log.Errorf("❌ Error fetching data: %v", err)
		return types.FetchResult{}, types.ErrNoData
	}
	if details == nil || details.Version == "" {
		return types.FetchResult{}, types.ErrNoData
	}

	result := types.FetchResult{
		Identity:    details.Version,
		Timestamp:   helpers.FormatISO(details.Updated),
		Notes:       details.RecentChanges,
		DisplayName: details.Title,
	}
	if details.Updated.IsZero() {
		result.Timestamp = helpers.FormatISO(time.Unix(0, 0))
	}
	if result.Notes == "" {
		result.Notes = "No release notes"
	}
	if result.DisplayName == "" {
		result.DisplayName = "App"
	}
	return result, nil
}
