// Package monitor runs the poll, diff and notify cycle for one source.
package monitor

import (
	"context"
	"strings"
	"sync"
	"time"

	"app-update-bot/internal/types"
	"app-update-bot/lib/helpers"
	"app-update-bot/lib/translation"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Check outcomes reported to the Recorder.
const (
	ResultChanged   = "changed"
	ResultUnchanged = "unchanged"
	ResultAbsent    = "absent"
	ResultFailed    = "failed"
)

// Sender delivers a notification to a chat.
type Sender interface {
	SendNotification(chat string, n types.Notification) error
}

// Recorder receives check and notification counts.
type Recorder interface {
	ObserveCheck(result string)
	NotificationSent()
}

// Journal keeps a history of delivered notifications.
type Journal interface {
	SaveNotification(source, identity, text string) error
	RecentNotifications(limit int) ([]types.SentNotification, error)
}

// State is what the bot remembers between polls. It lives in memory only.
type State struct {
	Identity   string
	AppName    string
	LastCheck  time.Time
	LastChange time.Time
	Checks     int64
	Notified   int64
}

// Monitor owns the State of one tracker. Checks are serialised by checkMu;
// stateMu guards State against the command handlers.
type Monitor struct {
	tracker  Tracker
	sender   Sender
	chat     string
	recorder Recorder
	journal  Journal
	now      func() time.Time

	checkMu sync.Mutex
	stateMu sync.RWMutex
	state   State
}

type Option func(*Monitor)

func WithRecorder(r Recorder) Option {
	return func(m *Monitor) { m.recorder = r }
}

func WithJournal(j Journal) Option {
	return func(m *Monitor) { m.journal = j }
}

func New(tracker Tracker, sender Sender, chat string, opts ...Option) *Monitor {
	m := &Monitor{
		tracker: tracker,
		sender:  sender,
		chat:    chat,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns a copy of the current state.
func (m *Monitor) State() State {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.state
}

// Check fetches the source once and notifies the chat when the identity
// differs from the last notified one. Absence and fetch failures are not
// notified and leave the identity untouched. Formatting or delivery errors
// are returned and also leave it untouched, so the next check retries.
func (m *Monitor) Check(ctx context.Context) error {
	m.checkMu.Lock()
	defer m.checkMu.Unlock()

	logger := log.WithField("source", m.tracker.Name())

	result, err := m.tracker.Fetch(ctx)
	m.touch()
	if errors.Is(err, types.ErrNoData) {
		logger.Debug("no data from source, skipping")
		m.observe(ResultAbsent)
		return nil
	}
	if err != nil {
		logger.Errorf("❌ Failed to fetch source: %v", err)
		m.observe(ResultFailed)
		return nil
	}
	logger.Debugf("fetched %s", spew.Sdump(result))

	previous, appName := m.cache(result.DisplayName)
	if result.Identity == previous {
		m.observe(ResultUnchanged)
		return nil
	}

	n, err := m.tracker.Format(appName, previous, result)
	if err != nil {
		m.observe(ResultFailed)
		return errors.Wrap(err, "could not format notification")
	}

	if err := m.sender.SendNotification(m.chat, n); err != nil {
		m.observe(ResultFailed)
		return errors.Wrap(err, "could not send notification")
	}

	m.stateMu.Lock()
	m.state.Identity = result.Identity
	m.state.LastChange = m.now()
	m.state.Notified++
	m.stateMu.Unlock()

	m.observe(ResultChanged)
	if m.recorder != nil {
		m.recorder.NotificationSent()
	}
	if m.journal != nil {
		if err := m.journal.SaveNotification(m.tracker.Name(), result.Identity, n.Text); err != nil {
			logger.Errorf("Failed to journal notification: %v", err)
		}
	}

	logger.WithFields(log.Fields{
		"previous": previous,
		"current":  result.Identity,
	}).Info("✅ Change notified")
	return nil
}

// Greeting answers /start. When no app name is cached yet it fetches the
// source once, outside the check schedule, to learn it.
func (m *Monitor) Greeting(ctx context.Context) string {
	name := m.State().AppName
	if name == "" {
		name = m.tracker.FallbackName()
		result, err := m.tracker.Fetch(ctx)
		if err == nil && result.DisplayName != "" {
			name = result.DisplayName
		}
		m.stateMu.Lock()
		if m.state.AppName == "" {
			m.state.AppName = name
		}
		name = m.state.AppName
		m.stateMu.Unlock()
	}
	return m.tracker.Greeting(name)
}

// Report answers /status.
func (m *Monitor) Report() string {
	s := m.State()

	identity := s.Identity
	if identity == "" {
		identity = translation.Translate("not detected yet")
	}
	name := s.AppName
	if name == "" {
		name = m.tracker.FallbackName()
	}

	var b strings.Builder
	b.WriteString(translation.Translate("<b>📊 %s monitor</b>\n\n", helpers.EscapeHTML(name)))
	b.WriteString(translation.Translate("<b>Source:</b> %s\n", m.tracker.Name()))
	b.WriteString(translation.Translate("<b>Current:</b> %s\n", helpers.EscapeHTML(identity)))
	b.WriteString(translation.Translate("<b>Last check:</b> %s\n", helpers.Ago(s.LastCheck)))
	b.WriteString(translation.Translate("<b>Last change:</b> %s\n", helpers.Ago(s.LastChange)))
	b.WriteString(translation.Translate("<b>Checks:</b> %s, <b>notifications:</b> %s\n",
		helpers.FormatCount(s.Checks), helpers.FormatCount(s.Notified)))
	b.WriteString(translation.Translate("<b>Language:</b> %s", translation.GetLanguage()))
	return b.String()
}

// History answers /history with the latest journal entries.
func (m *Monitor) History(limit int) string {
	if m.journal == nil {
		return translation.Translate("History is not available.")
	}
	entries, err := m.journal.RecentNotifications(limit)
	if err != nil {
		log.Errorf("Failed to load notification history: %v", err)
		return translation.Translate("Failed to load history.")
	}
	if len(entries) == 0 {
		return translation.Translate("No notifications sent yet.")
	}

	var b strings.Builder
	b.WriteString(translation.Translate("<b>🕘 Recent notifications</b>\n"))
	for _, e := range entries {
		b.WriteString(translation.Translate("\n• <b>%s</b> %s", helpers.EscapeHTML(e.Identity), helpers.EscapeHTML(e.SentAt)))
	}
	return b.String()
}

func (m *Monitor) touch() {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	m.state.LastCheck = m.now()
	m.state.Checks++
}

// cache stores the display name of a successful fetch and returns the last
// notified identity with the cached name.
func (m *Monitor) cache(displayName string) (string, string) {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	if displayName != "" {
		m.state.AppName = displayName
	}
	name := m.state.AppName
	if name == "" {
		name = m.tracker.FallbackName()
	}
	return m.state.Identity, name
}

func (m *Monitor) observe(result string) {
	if m.recorder != nil {
		m.recorder.ObserveCheck(result)
	}
}
