package main

import (
	"testing"

	"app-update-bot/internal/monitor"
	"app-update-bot/internal/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTracker(t *testing.T) {
	t.Setenv("DOWNLOAD_URL", "")

	tracker, err := newTracker("appstore")
	require.NoError(t, err)
	vt, ok := tracker.(*monitor.VersionTracker)
	require.True(t, ok)
	assert.Equal(t, "App Store", vt.Name())
	assert.IsType(t, &source.AppStore{}, vt.Fetcher)
	assert.Equal(t, "🔄 Update Now", vt.Button.Label)

	tracker, err = newTracker("playstore")
	require.NoError(t, err)
	vt = tracker.(*monitor.VersionTracker)
	assert.Equal(t, "Google Play", vt.Name())
	assert.IsType(t, &source.PlayStore{}, vt.Fetcher)
	assert.Equal(t, "🤖 Update Now", vt.Button.Label)

	tracker, err = newTracker("testflight")
	require.NoError(t, err)
	st, ok := tracker.(*monitor.StatusTracker)
	require.True(t, ok)
	assert.Equal(t, "TestFlight", st.Name())
	assert.IsType(t, &source.TestFlight{}, st.Fetcher)
}

func TestNewTrackerUnknownSource(t *testing.T) {
	_, err := newTracker("f-droid")
	assert.Error(t, err)
}
