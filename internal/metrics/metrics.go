// Package metrics — счетчики Prometheus для HTTP-слоя и детектора.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Latency: длительность обработки HTTP-запросов
	RequestDuration *prometheus.HistogramVec

	// Traffic: общее кол-во HTTP-запросов
	TotalRequests *prometheus.CounterVec

	// Детекции по режиму и вердикту
	DetectionsTotal *prometheus.CounterVec

	// Попадания/промахи кэша аналитики
	AnalyticsCache *prometheus.CounterVec

	// Срабатывания синтетической подстановки данных
	SampleFallbackTotal prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	// Null Object Pattern — без регистратора метрики летят в локальный
	// реестр, который никуда не подключен
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		RequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "phishsight_request_duration_seconds",
			Help:    "Histogram of request latencies.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"route", "method", "status"}),

		TotalRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "phishsight_requests_total",
			Help: "Total number of processed HTTP requests.",
		}, []string{"route", "method"}),

		DetectionsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "phishsight_detections_total",
			Help: "Total number of detections by mode and verdict.",
		}, []string{"mode", "verdict"}),

		AnalyticsCache: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "phishsight_analytics_cache_total",
			Help: "Analytics cache lookups by outcome.",
		}, []string{"outcome"}), // hit, miss, error

		SampleFallbackTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "phishsight_sample_fallback_total",
			Help: "Times the synthetic sample dataset was served.",
		}),
	}
}
