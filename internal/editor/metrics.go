package editor

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricsOnce        sync.Once
	storeEventsTotal   *prometheus.CounterVec
	loaderFetchesTotal *prometheus.CounterVec
	autoplayTicksTotal *prometheus.CounterVec
)

func initMetrics() {
	metricsOnce.Do(func() {
		storeEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kirin_dashboard",
			Subsystem: "editor",
			Name:      "store_events_total",
			Help:      "Section store mutations by event kind",
		}, []string{"kind"})

		loaderFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kirin_dashboard",
			Subsystem: "editor",
			Name:      "loader_fetches_total",
			Help:      "Loader fetches by resource and outcome",
		}, []string{"resource", "outcome"})

		autoplayTicksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kirin_dashboard",
			Subsystem: "editor",
			Name:      "autoplay_ticks_total",
			Help:      "Carousel autoplay ticks by outcome",
		}, []string{"outcome"})
	})
}
