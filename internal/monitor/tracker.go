package monitor

import (
	"context"
	"time"

	"app-update-bot/internal/message"
	"app-update-bot/internal/source"
	"app-update-bot/internal/types"
	"app-update-bot/lib/helpers"
	"app-update-bot/lib/translation"
)

// Tracker is the capability set the monitor needs from one kind of source.
type Tracker interface {
	// Name identifies the source in logs, metrics and the journal.
	Name() string
	Fetch(ctx context.Context) (types.FetchResult, error)
	// Format renders the notification for r; previous is empty when nothing
	// has been notified yet.
	Format(appName, previous string, r types.FetchResult) (types.Notification, error)
	Greeting(appName string) string
	FallbackName() string
}

// VersionTracker follows the published version of a store listing.
type VersionTracker struct {
	source.Fetcher
	Store  string
	Button types.Button
}

func (v *VersionTracker) Name() string {
	return v.Store
}

func (v *VersionTracker) Format(appName, previous string, r types.FetchResult) (types.Notification, error) {
	return message.Version(appName, previous, r, v.Button)
}

func (v *VersionTracker) Greeting(appName string) string {
	return translation.Translate("<b>👋 Hello! I'll notify about new %s updates on %s.</b>",
		helpers.EscapeHTML(appName), v.Store)
}

func (v *VersionTracker) FallbackName() string {
	return "App"
}

// StatusTracker follows the availability of a TestFlight beta.
type StatusTracker struct {
	source.Fetcher
	URL string

	now func() time.Time
}

func (s *StatusTracker) Name() string {
	return "TestFlight"
}

func (s *StatusTracker) Format(_, _ string, r types.FetchResult) (types.Notification, error) {
	now := time.Now()
	if s.now != nil {
		now = s.now()
	}
	return message.Status(types.Status(r.Identity), r.Notes, now, s.URL), nil
}

func (s *StatusTracker) Greeting(appName string) string {
	return translation.Translate("<b>👋 Hello! I'll notify you about %s beta slot availability.</b>\nCurrently monitoring: %s",
		helpers.EscapeHTML(appName), s.URL)
}

func (s *StatusTracker) FallbackName() string {
	return "TestFlight"
}
