package source

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"app-update-bot/internal/types"
	"app-update-bot/lib/helpers"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

// statusPatterns are checked in order; the first match wins. "Join" also
// appears on full and closed pages, so it must stay last.
var statusPatterns = []struct {
	status  types.Status
	pattern string
}{
	{types.StatusFull, "This beta is full"},
	{types.StatusClosed, "This beta isn't accepting any new testers right now"},
	{types.StatusAvailable, "Join"},
}

var betaTitle = regexp.MustCompile(`Join the (.+?) beta`)

// TestFlight scrapes a public TestFlight invitation page.
type TestFlight struct {
	URL       string
	UserAgent string
	Client    *http.Client
	// ReportFailures turns fetch failures into an ERROR status result
	// instead of an error, so they are notified like a status change.
	ReportFailures bool

	now func() time.Time
}

// DetectStatus maps a page body to a beta status.
func DetectStatus(page string) types.Status {
	for _, p := range statusPatterns {
		if strings.Contains(page, p.pattern) {
			return p.status
		}
	}
	return types.StatusUnknown
}

// BetaName extracts the app name from the page title, if present.
func BetaName(page []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return ""
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if m := betaTitle.FindStringSubmatch(title); len(m) == 2 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func (t *TestFlight) Fetch(ctx context.Context) (types.FetchResult, error) {
	result, err := t.fetch(ctx)
	if err != nil && t.ReportFailures {
		return types.FetchResult{
			Identity:  string(types.StatusError),
			Timestamp: helpers.FormatISO(t.clock()),
			Notes:     err.Error(),
		}, nil
	}
	return result, err
}

func (t *TestFlight) fetch(ctx context.Context) (types.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.URL, nil)
	if err != nil {
		return types.FetchResult{}, errors.Wrap(err, "could not build page request")
	}
	ua := t.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)

	resp, err := httpClient(t.Client).Do(req)
	if err != nil {
		return types.FetchResult{}, errors.Wrap(err, "could not fetch TestFlight page")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.FetchResult{}, errors.Errorf("failed to fetch the page, status code: %d", resp.StatusCode)
	}

	page, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.FetchResult{}, errors.Wrap(err, "could not read TestFlight page")
	}

	status := DetectStatus(string(page))
	name := BetaName(page)
	if name == "" {
		name = "TestFlight"
	}

	return types.FetchResult{
		Identity:    string(status),
		Timestamp:   helpers.FormatISO(t.clock()),
		DisplayName: name,
	}, nil
}

func (t *TestFlight) clock() time.Time {
	if t.now != nil {
		return t.now()
	}
	return time.Now()
}
