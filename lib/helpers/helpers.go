package helpers

import (
	"html"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// ISOLayout is the release timestamp format shared by all sources.
	ISOLayout = "2006-01-02T15:04:05Z"
	// HumanLayout is how dates are shown in chat.
	HumanLayout = "02.01.2006 15:04:05"
)

// EscapeHTML escapes text for Telegram's HTML parse mode.
func EscapeHTML(text string) string {
	return html.EscapeString(text)
}

// FormatISO renders t as an ISO-8601 UTC timestamp.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// FormatReleaseDate converts an ISO-8601 timestamp to the chat format.
func FormatReleaseDate(iso string) (string, error) {
	t, err := time.Parse(ISOLayout, strings.TrimSpace(iso))
	if err != nil {
		return "", err
	}
	return t.Format(HumanLayout), nil
}

func FormatTime(t time.Time) string {
	return t.Format(HumanLayout)
}

// Ago renders a relative time, or "never" for the zero time.
func Ago(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

func FormatCount(n int64) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%d", n)
}
