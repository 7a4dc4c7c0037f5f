package types

import "github.com/pkg/errors"

// ErrNoData is returned by a source when the upstream has nothing to report.
var ErrNoData = errors.New("no data")

// Status is the availability state of a TestFlight beta page.
type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusFull      Status = "FULL"
	StatusClosed    Status = "CLOSED"
	StatusUnknown   Status = "UNKNOWN"
	StatusError     Status = "ERROR"
)

// FetchResult is what a source returns for one poll.
type FetchResult struct {
	Identity    string `json:"identity"`  // version string or status value
	Timestamp   string `json:"timestamp"` // 2006-01-02T15:04:05Z
	Notes       string `json:"notes"`
	DisplayName string `json:"display_name"`
}

// Button is an inline URL button attached to a notification.
type Button struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Notification is a formatted chat message, built fresh for every send.
type Notification struct {
	Text   string  `json:"text"`
	Button *Button `json:"button,omitempty"`
}

// SentNotification is a journal row for a delivered notification.
type SentNotification struct {
	ID       int64  `json:"id"`
	Source   string `json:"source"`
	Identity string `json:"identity"`
	Text     string `json:"text"`
	SentAt   string `json:"sent_at"`
}
