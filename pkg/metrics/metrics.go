package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BuildingCreations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rentalhub_building_creations_total",
			Help: "Building wizard submissions by creation mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	BuildingUnitsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rentalhub_building_units_created_total",
			Help: "Unit rows created by the building wizard",
		},
	)

	Uploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rentalhub_uploads_total",
			Help: "File uploads by storage driver and outcome",
		},
		[]string{"driver", "outcome"},
	)

	DraftSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rentalhub_draft_saves_total",
			Help: "Draft save requests, split into stored and unchanged",
		},
		[]string{"result"},
	)

	ViewFlushDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "rentalhub_view_flush_duration_seconds",
			Help: "Time spent moving view counters from Redis to Postgres",
		},
	)
)
