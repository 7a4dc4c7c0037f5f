package translation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslateFallsBackToMsgID(t *testing.T) {
	assert.Equal(t, "Hello Telegram", Translate("Hello %s", "Telegram"))
	assert.Equal(t, "plain", Translate("plain"))
}

func TestConfigureNormalisesLanguage(t *testing.T) {
	dir := t.TempDir()

	assert.Equal(t, "de", Configure(dir, "de_DE.UTF-8"))
	assert.Equal(t, "en", Configure(dir, "not a language"))
}

func TestGetLanguageFollowsConfigure(t *testing.T) {
	dir := t.TempDir()

	Configure(dir, "de")
	assert.Equal(t, "de", GetLanguage())

	Configure(dir, "en_US.UTF-8")
	assert.Equal(t, "en", GetLanguage())
}
