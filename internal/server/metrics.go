package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boxlabel_http_requests_total",
		Help: "HTTP requests by method, route and status",
	}, []string{"method", "endpoint", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "boxlabel_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds; editor sessions count until disconnect",
		Buckets: []float64{.001, .005, .025, .1, .5, 2.5, 10, 60, 600, 3600},
	}, []string{"method", "endpoint"})

	imageRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boxlabel_image_requests_total",
		Help: "Raw image requests by outcome",
	}, []string{"status"})

	websocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "boxlabel_websocket_active_connections",
		Help: "Attached editor connections (0 or 1)",
	})

	websocketRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "boxlabel_websocket_rejected_total",
		Help: "Editor connections refused because another editor was attached",
	})

	// direction: sent, received
	websocketMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boxlabel_websocket_messages_total",
		Help: "WebSocket messages by direction",
	}, []string{"direction"})

	frameBytes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "boxlabel_frame_bytes",
		Help:    "Encoded size of frames sent to the editor",
		Buckets: prometheus.ExponentialBuckets(256, 4, 9),
	}, []string{"mode"})
)
