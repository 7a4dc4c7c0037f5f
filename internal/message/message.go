// Package message renders chat notifications in Telegram HTML.
package message

import (
	"fmt"
	"time"

	"app-update-bot/internal/types"
	"app-update-bot/lib/helpers"
	"app-update-bot/lib/translation"

	"github.com/pkg/errors"
)

var statusEmoji = map[types.Status]string{
	types.StatusAvailable: "✅",
	types.StatusFull:      "❌",
	types.StatusClosed:    "🔒",
	types.StatusUnknown:   "❓",
	types.StatusError:     "⚠️",
}

var statusText = map[types.Status]string{
	types.StatusAvailable: "Beta slots are available!",
	types.StatusFull:      "Beta is full",
	types.StatusClosed:    "Beta is not accepting new testers",
	types.StatusUnknown:   "Unable to determine status",
	types.StatusError:     "Failed to fetch the page",
}

// Version renders a new-release notification. previous is empty on the
// first detected version.
func Version(appName, previous string, r types.FetchResult, button types.Button) (types.Notification, error) {
	versionText := helpers.EscapeHTML(r.Identity)
	if previous != "" {
		versionText = fmt.Sprintf("%s -> %s", helpers.EscapeHTML(previous), versionText)
	}

	released, err := helpers.FormatReleaseDate(r.Timestamp)
	if err != nil {
		return types.Notification{}, errors.Wrapf(err, "could not parse release date %q", r.Timestamp)
	}

	text := translation.Translate("<b>🚀 New %s Update Available!</b>\n\n", helpers.EscapeHTML(appName)) +
		translation.Translate("<b>📱 Version:</b> %s\n", versionText) +
		translation.Translate("<b>🗓️ Released:</b> %s\n", released) +
		translation.Translate("<b>📝 Changes:</b> <code>%s</code>", helpers.EscapeHTML(r.Notes))

	return types.Notification{
		Text:   text,
		Button: &types.Button{Label: translation.Translate(button.Label), URL: button.URL},
	}, nil
}

// Status renders a TestFlight status notification stamped with now. The
// Open TestFlight button is attached only when slots are available.
func Status(status types.Status, reason string, now time.Time, url string) types.Notification {
	emoji, ok := statusEmoji[status]
	if !ok {
		emoji = "❓"
	}
	label, ok := statusText[status]
	if !ok {
		label = "Unknown status"
	}

	text := translation.Translate("<b>%s TestFlight Status Update</b>\n\n", emoji) +
		translation.Translate("<b>Status:</b> %s\n", translation.Translate(label)) +
		translation.Translate("<b>Time:</b> %s", helpers.FormatTime(now))
	if status == types.StatusError && reason != "" {
		text += translation.Translate("\n<b>Reason:</b> <code>%s</code>", helpers.EscapeHTML(reason))
	}

	n := types.Notification{Text: text}
	if status == types.StatusAvailable {
		n.Button = &types.Button{Label: translation.Translate("📱 Open TestFlight"), URL: url}
	}
	return n
}
