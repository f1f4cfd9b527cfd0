// Package metrics содержит Prometheus-метрики доступа к каталогу заказов.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Значения метки result.
const (
	ResultSuccess  = "success"
	ResultError    = "error"
	ResultFound    = "found"
	ResultNotFound = "not_found"
)

// RepositoryMetrics содержит метрики загрузки и поиска заказов.
type RepositoryMetrics struct {
	loads        *prometheus.CounterVec
	loadDuration *prometheus.HistogramVec
	ordersLoaded *prometheus.GaugeVec
	lookups      *prometheus.CounterVec
}

// NewRepositoryMetrics регистрирует метрики в registerer (при nil используется DefaultRegisterer).
func NewRepositoryMetrics(registerer prometheus.Registerer) *RepositoryMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &RepositoryMetrics{
		loads: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "grocery_repository_loads_total",
			Help: "Total number of full order catalogue loads",
		}, []string{"backend", "result"}),
		loadDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "grocery_repository_load_duration_seconds",
			Help:    "Duration of full order catalogue loads in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"backend"}),
		ordersLoaded: registerGaugeVec(registerer, prometheus.GaugeOpts{
			Name: "grocery_repository_orders_loaded",
			Help: "Number of orders returned by the last successful load",
		}, []string{"backend"}),
		lookups: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "grocery_repository_lookups_total",
			Help: "Total number of single order lookups",
		}, []string{"backend", "result"}),
	}
}

// RecordLoad записывает результат загрузки всего каталога.
func (m *RepositoryMetrics) RecordLoad(backend string, orders int, duration time.Duration, err error) {
	m.loadDuration.WithLabelValues(backend).Observe(duration.Seconds())
	if err != nil {
		m.loads.WithLabelValues(backend, ResultError).Inc()
		return
	}
	m.loads.WithLabelValues(backend, ResultSuccess).Inc()
	m.ordersLoaded.WithLabelValues(backend).Set(float64(orders))
}

// RecordLookup увеличивает счётчик поиска с указанным результатом.
func (m *RepositoryMetrics) RecordLookup(backend, result string) {
	m.lookups.WithLabelValues(backend, result).Inc()
}
