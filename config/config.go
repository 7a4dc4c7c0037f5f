package config

import (
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

const (
	SourceAppStore   = "appstore"
	SourcePlayStore  = "playstore"
	SourceTestFlight = "testflight"
)

var once sync.Once

func InitConfig() {
	once.Do(func() {
		viper.AutomaticEnv()

		viper.BindEnv("metrics_port", "METRICS_PORT")
		viper.BindEnv("telegram_bot_token", "TELEGRAM_BOT_TOKEN")
		viper.BindEnv("chat_id", "CHAT_ID")
		viper.BindEnv("source", "SOURCE")
		viper.BindEnv("api_url", "API_URL")
		viper.BindEnv("download_url", "DOWNLOAD_URL")
		viper.BindEnv("package_name", "PACKAGE_NAME")
		viper.BindEnv("play_country", "PLAY_COUNTRY")
		viper.BindEnv("play_language", "PLAY_LANGUAGE")
		viper.BindEnv("testflight_url", "TESTFLIGHT_URL")
		viper.BindEnv("interval", "INTERVAL")
		viper.BindEnv("notify_failures", "NOTIFY_FAILURES")
		viper.BindEnv("db_path", "DB_PATH")
		viper.BindEnv("debug", "DEBUG")
		viper.BindEnv("lang", "LANG")

		viper.SetDefault("metrics_port", 9090)
		viper.SetDefault("source", SourceAppStore)
		viper.SetDefault("api_url", "https://itunes.apple.com/lookup?id=686449807")
		viper.SetDefault("package_name", "org.telegram.messenger")
		viper.SetDefault("play_country", "us")
		viper.SetDefault("play_language", "en")
		viper.SetDefault("testflight_url", "https://testflight.apple.com/join/u6iogfd0")
		viper.SetDefault("interval", 0)
		viper.SetDefault("notify_failures", false)
		viper.SetDefault("db_path", "/app/data/bot.db")
		viper.SetDefault("debug", false)
		viper.SetDefault("lang", "en")
	})
}

func GetString(key string) string {
	InitConfig()
	return viper.GetString(key)
}

func GetInt(key string) int {
	InitConfig()
	return viper.GetInt(key)
}

func GetBool(key string) bool {
	InitConfig()
	return viper.GetBool(key)
}

// Source returns the configured source kind, lower-cased.
func Source() string {
	return strings.ToLower(strings.TrimSpace(GetString("source")))
}

// Interval returns the poll interval for the given source. INTERVAL is in
// minutes; zero or negative selects the per-source default.
func Interval(source string) time.Duration {
	minutes := GetInt("interval")
	if minutes <= 0 {
		minutes = 60
		if source == SourceTestFlight {
			minutes = 10
		}
	}
	return time.Duration(minutes) * time.Minute
}

// DownloadURL returns the action link for the given source.
func DownloadURL(source string) string {
	if u := GetString("download_url"); u != "" {
		return u
	}
	switch source {
	case SourcePlayStore:
		return "https://play.google.com/store/apps/details?id=" + GetString("package_name")
	case SourceTestFlight:
		return GetString("testflight_url")
	default:
		return "https://apps.apple.com/app/telegram-messenger/id686449807"
	}
}
