package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"app-update-bot/config"
	"app-update-bot/internal/database"
	"app-update-bot/internal/metrics"
	"app-update-bot/internal/monitor"
	"app-update-bot/internal/scheduler"
	"app-update-bot/internal/source"
	"app-update-bot/internal/telegram"
	"app-update-bot/internal/types"
	"app-update-bot/lib/translation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	botMetrics = metrics.NewBotMetrics(prometheus.DefaultRegisterer)
)

func init() {
	config.InitConfig()
	setupLogging()
}

func main() {
	translation.Configure("locales", config.GetString("lang"))

	err := database.InitDB(config.GetString("db_path"))
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDB()

	botMetrics.LoadFromDB()

	src := config.Source()
	tracker, err := newTracker(src)
	if err != nil {
		log.Fatal(err)
	}

	bot, err := telegram.NewBot(telegram.BotConfig{
		Token:          config.GetString("telegram_bot_token"),
		Debug:          config.GetBool("debug"),
		UpdatesTimeout: 60,
	})
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	chat := config.GetString("chat_id")
	if err := telegram.ValidateChat(chat); err != nil {
		log.Fatalf("Invalid CHAT_ID: %v", err)
	}

	mon := monitor.New(tracker, bot, chat,
		monitor.WithRecorder(botMetrics),
		monitor.WithJournal(database.Journal{}),
	)
	bot.Responder = mon

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := bot.GetUpdatesChannel()
	if err != nil {
		log.Fatalf("Failed to get updates channel: %v", err)
	}
	go handleUpdates(bot, updates)

	sched := scheduler.New(config.Interval(src))
	go sched.Start(ctx, func(ctx context.Context) {
		if err := mon.Check(ctx); err != nil {
			log.Errorf("❌ Check failed: %v", err)
		}
	})

	go func() {
		for {
			time.Sleep(5 * time.Minute)
			botMetrics.SaveToDB()
		}
	}()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		cancel()
		sched.Stop()
		botMetrics.SaveToDB()
		database.CloseDB()
		log.Println("Metrics saved, shutting down...")
		os.Exit(0)
	}()

	if err := launchMetricsAndHealthServer(config.GetInt("metrics_port")); err != nil {
		log.Fatalf("Failed to start metrics and health server: %v", err)
	}
}

func newTracker(src string) (monitor.Tracker, error) {
	switch src {
	case config.SourceAppStore:
		return &monitor.VersionTracker{
			Fetcher: &source.AppStore{URL: config.GetString("api_url")},
			Store:   "App Store",
			Button:  types.Button{Label: "🔄 Update Now", URL: config.DownloadURL(src)},
		}, nil
	case config.SourcePlayStore:
		return &monitor.VersionTracker{
			Fetcher: &source.PlayStore{
				PackageName: config.GetString("package_name"),
				Country:     config.GetString("play_country"),
				Language:    config.GetString("play_language"),
			},
			Store:  "Google Play",
			Button: types.Button{Label: "🤖 Update Now", URL: config.DownloadURL(src)},
		}, nil
	case config.SourceTestFlight:
		return &monitor.StatusTracker{
			Fetcher: &source.TestFlight{
				URL:            config.GetString("testflight_url"),
				ReportFailures: config.GetBool("notify_failures"),
			},
			URL: config.DownloadURL(src),
		}, nil
	}
	return nil, fmt.Errorf("unknown source %q, expected %s, %s or %s",
		src, config.SourceAppStore, config.SourcePlayStore, config.SourceTestFlight)
}

func setupLogging() {
	log.SetLevel(log.ErrorLevel)
	if config.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}
	log.Debug("Starting telegram bot...")
}

func handleUpdates(bot *telegram.Bot, updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		if update.Message == nil || !update.Message.IsCommand() {
			log.Debug("Received non-message or non-command")
			continue
		}

		botMetrics.MessagesHandled.Inc()
		handleCommand(bot, update)
	}
}

func handleCommand(bot *telegram.Bot, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			stackBuf := make([]byte, 1024)
			stackSize := runtime.Stack(stackBuf, false)
			stackTrace := bytes.TrimRight(stackBuf[:stackSize], "\x00")
			log.Errorf("Recovered from panic: %v\nStack trace: %s", r, stackTrace)
		}
	}()

	text := bot.HandleUpdate(update)
	if text == "" {
		return
	}

	err := bot.SendMessage(telegram.Message{
		ChatID:    update.Message.Chat.ID,
		Text:      text,
		MessageID: update.Message.MessageID,
	})

	if err != nil {
		log.Errorf("Failed to send message: %v", err)
	} else {
		botMetrics.CommandsProcessed.Inc()
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func launchMetricsAndHealthServer(port int) error {
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/health", healthCheckHandler)

	log.Infof("Launching metrics and health endpoint on :%d", port)
	return http.ListenAndServe(fmt.Sprintf(":%d", port), http.DefaultServeMux)
}
