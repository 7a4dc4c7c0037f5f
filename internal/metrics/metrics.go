package metrics

import (
	"sync"
	"time"

	"app-update-bot/internal/database"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	log "github.com/sirupsen/logrus"
)

type BotMetrics struct {
	CommandsProcessed prometheus.Counter
	MessagesHandled   prometheus.Counter
	NotificationsSent prometheus.Counter
	Checks            *prometheus.CounterVec
	LastCheck         prometheus.Gauge
	Mutex             sync.Mutex
}

func NewBotMetrics(reg prometheus.Registerer) *BotMetrics {
	metrics := &BotMetrics{
		CommandsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "app_update",
			Subsystem: "telegram_bot",
			Name:      "commands_processed",
			Help:      "The total number of processed commands",
		}),
		MessagesHandled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "app_update",
			Subsystem: "telegram_bot",
			Name:      "messages_handled",
			Help:      "The total number of handled messages",
		}),
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "app_update",
			Subsystem: "telegram_bot",
			Name:      "notifications_sent",
			Help:      "The total number of change notifications delivered",
		}),
		Checks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "app_update",
				Subsystem: "telegram_bot",
				Name:      "checks",
				Help:      "Source checks by result",
			},
			[]string{"result"},
		),
		LastCheck: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "app_update",
			Subsystem: "telegram_bot",
			Name:      "last_check_timestamp_seconds",
			Help:      "Unix time of the last completed check",
		}),
	}

	reg.MustRegister(metrics.CommandsProcessed)
	reg.MustRegister(metrics.MessagesHandled)
	reg.MustRegister(metrics.NotificationsSent)
	reg.MustRegister(metrics.Checks)
	reg.MustRegister(metrics.LastCheck)

	return metrics
}

// ObserveCheck counts one check by its result.
func (m *BotMetrics) ObserveCheck(result string) {
	m.Checks.WithLabelValues(result).Inc()
	m.LastCheck.Set(float64(time.Now().Unix()))
}

func (m *BotMetrics) NotificationSent() {
	m.NotificationsSent.Inc()
}

// LoadFromDB restores counters persisted by a previous run.
func (m *BotMetrics) LoadFromDB() {
	m.Mutex.Lock()
	defer m.Mutex.Unlock()

	commandsProcessed, _ := database.GetMetric("commands_processed")
	messagesHandled, _ := database.GetMetric("messages_handled")
	notificationsSent, _ := database.GetMetric("notifications_sent")

	m.CommandsProcessed.Add(commandsProcessed)
	m.MessagesHandled.Add(messagesHandled)
	m.NotificationsSent.Add(notificationsSent)

	checks, err := database.GetMetricsWithLabels("checks")
	if err != nil {
		log.Errorf("Failed to load check metrics: %v", err)
	}
	for result, value := range checks["result"] {
		m.Checks.WithLabelValues(result).Add(value)
	}

	log.Debug("Metrics loaded from database.")
}

func (m *BotMetrics) SaveToDB() {
	m.Mutex.Lock()
	defer m.Mutex.Unlock()

	saveMetric("commands_processed", GetMetricValue(m.CommandsProcessed))
	saveMetric("messages_handled", GetMetricValue(m.MessagesHandled))
	saveMetric("notifications_sent", GetMetricValue(m.NotificationsSent))

	metricChan := make(chan prometheus.Metric, 8)
	go func() {
		m.Checks.Collect(metricChan)
		close(metricChan)
	}()

	for metric := range metricChan {
		metricProto := &dto.Metric{}
		if err := metric.Write(metricProto); err != nil {
			log.Errorf("Failed to read checks metric: %v", err)
			continue
		}
		var result string
		for _, label := range metricProto.Label {
			if label.GetName() == "result" {
				result = label.GetValue()
			}
		}
		if err := database.SaveMetricWithLabels("checks", "result", result, metricProto.Counter.GetValue()); err != nil {
			log.Error(err)
		}
	}

	log.Debug("Metrics saved to database.")
}

func saveMetric(name string, value float64) {
	if err := database.SaveMetric(name, value); err != nil {
		log.Error(err)
	}
}

func GetMetricValue(metric prometheus.Collector) float64 {
	var metricValue float64
	metricChan := make(chan prometheus.Metric, 1)
	metric.Collect(metricChan)
	close(metricChan)

	metricProto := &dto.Metric{}
	if err := (<-metricChan).Write(metricProto); err != nil {
		log.Errorf("Failed to read metric value: %v", err)
		return 0
	}

	if metricProto.Counter != nil {
		metricValue = metricProto.Counter.GetValue()
	} else if metricProto.Gauge != nil {
		metricValue = metricProto.Gauge.GetValue()
	}
	return metricValue
}
