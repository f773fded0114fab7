package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "calendar_event_mutations_total",
		Help: "The number of applied event store mutations",
	}, []string{"op"})

	PersistFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "calendar_persist_failures_total",
		Help: "The number of failed event list loads and saves",
	}, []string{"op"})

	SyncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "calendar_sync_runs_total",
		Help: "The number of remote calendar syncs by result",
	}, []string{"result"})

	RemindersSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "calendar_reminders_sent_total",
		Help: "The number of dispatched occurrence reminders",
	})
)
