package translation

import (
	"strings"

	"github.com/leonelquinteros/gotext"
	"golang.org/x/text/language"
)

// Configure loads the locale catalogue for lang from dir. Unknown tags fall
// back to English.
func Configure(dir, lang string) string {
	if i := strings.IndexByte(lang, '.'); i >= 0 {
		lang = lang[:i]
	}
	tag, err := language.Parse(strings.ReplaceAll(lang, "_", "-"))
	if err != nil {
		tag = language.English
	}
	base, _ := tag.Base()
	gotext.Configure(dir, base.String(), "default")
	return base.String()
}

func GetLanguage() string {
	lang := gotext.GetLanguage()

	if lang == "und" || lang == "" {
		return "en"
	}

	return lang
}

func Translate(msgID string, vars ...interface{}) string {
	return gotext.Get(msgID, vars...)
}
