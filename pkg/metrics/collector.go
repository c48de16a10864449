// Package metrics exposes Prometheus instrumentation for the bot.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bookworm-labs/bookworm-bot/internal/catalog"
	"github.com/bookworm-labs/bookworm-bot/internal/session"
)

var (
	botCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Total number of bot commands received labeled by command and status",
		},
		[]string{"command", "status"},
	)
	commandDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "command_duration_seconds",
			Help:    "Duration of bot commands in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)
	sessionTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_transitions_total",
			Help: "Total number of browsing session transitions",
		},
		[]string{"from", "to"},
	)
	catalogFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_fetches_total",
			Help: "Total number of catalog lookups by result",
		},
		[]string{"result"},
	)
	translationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translations_total",
			Help: "Total number of description translations by result",
		},
		[]string{"result"},
	)
	storeBackupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_backups_total",
			Help: "Total number of store backups by result",
		},
		[]string{"result"},
	)
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors split by type and severity",
		},
		[]string{"type", "severity"},
	)
	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_sessions",
			Help: "Current number of tracked user sessions",
		},
	)
	sessionsByState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sessions_by_state",
			Help: "Number of user sessions per state",
		},
		[]string{"state"},
	)
)

var trackedStates = []session.State{
	session.StateIdle,
	session.StateBrowsing,
	session.StateError,
}

func init() {
	session.RegisterTransitionRecorder(RecordSessionTransition)
	catalog.RegisterFetchRecorder(RecordCatalogFetch)
}

// RecordCommand increments command counters and records duration.
func RecordCommand(command, status string, duration time.Duration) {
	if command == "" {
		command = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	botCommandsTotal.WithLabelValues(command, status).Inc()
	commandDurationSeconds.WithLabelValues(command).Observe(duration.Seconds())
}

// RecordSessionTransition tracks browsing FSM transitions.
func RecordSessionTransition(from, to string) {
	if from == "" {
		from = "unknown"
	}
	if to == "" {
		to = "unknown"
	}

	sessionTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordCatalogFetch tracks catalog lookup outcomes.
func RecordCatalogFetch(result string) {
	if result == "" {
		result = "unknown"
	}

	catalogFetchesTotal.WithLabelValues(result).Inc()
}

// RecordTranslation tracks translation outcomes.
func RecordTranslation(result string) {
	if result == "" {
		result = "unknown"
	}

	translationsTotal.WithLabelValues(result).Inc()
}

// RecordBackup tracks scheduled and manual backup outcomes.
func RecordBackup(result string) {
	if result == "" {
		result = "unknown"
	}

	storeBackupsTotal.WithLabelValues(result).Inc()
}

// RecordError increments error counters with metadata.
func RecordError(errType, severity string) {
	if errType == "" {
		errType = "unknown"
	}
	if severity == "" {
		severity = "unknown"
	}

	errorsTotal.WithLabelValues(errType, severity).Inc()
}

// SetActiveSessions updates the gauge for currently tracked sessions.
func SetActiveSessions(count int) {
	activeSessions.Set(float64(count))
}

// SetSessionsByState updates the gauge for the given state.
func SetSessionsByState(state string, count int) {
	if state == "" {
		state = "unknown"
	}

	sessionsByState.WithLabelValues(state).Set(float64(count))
}

// SessionCollector periodically gathers session state counts and emits gauge metrics.
type SessionCollector struct {
	machine session.Machine
}

// NewSessionCollector builds a metrics collector bound to the browsing FSM.
func NewSessionCollector(machine session.Machine) *SessionCollector {
	return &SessionCollector{machine: machine}
}

// Run polls the FSM every 10 seconds, updating session gauges until ctx is cancelled.
func (c *SessionCollector) Run(ctx context.Context) {
	if c == nil || c.machine == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	for {
		_ = c.collect(ctx)

		select {
		case <-ctx.Done():
			return
		case <-time.After(10 * time.Second):
		}
	}
}

func (c *SessionCollector) collect(ctx context.Context) error {
	states, err := c.machine.GetAllStates(ctx)
	if err != nil {
		return err
	}

	SetActiveSessions(len(states))

	stateCounts := make(map[string]int, len(states))
	for _, st := range states {
		label := "unknown"
		if st != nil && st.CurrentState != "" {
			label = string(st.CurrentState)
		}
		stateCounts[label]++
	}

	sessionsByState.Reset()

	for _, tracked := range trackedStates {
		label := string(tracked)
		SetSessionsByState(label, stateCounts[label])
		delete(stateCounts, label)
	}

	for label, count := range stateCounts {
		SetSessionsByState(label, count)
	}

	return nil
}
