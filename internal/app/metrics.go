package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boxlabel_editor_events_total",
			Help: "Total number of input events handled by the editor",
		},
		[]string{"type"}, // type: pointer, key
	)

	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boxlabel_commands_total",
			Help: "Total number of editor commands executed",
		},
		[]string{"command"},
	)

	savesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boxlabel_saves_total",
			Help: "Total number of box record saves",
		},
		[]string{"status"}, // status: success, error
	)

	imagesLoadedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "boxlabel_images_loaded_total",
			Help: "Total number of images loaded into the editor",
		},
	)
)
