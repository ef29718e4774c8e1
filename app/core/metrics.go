package core

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/resumid-ai/resumid/pkg/metrics"
)

type Metrics struct {
	apiResponseTime      *prometheus.HistogramVec
	apiErrorCounter      *prometheus.CounterVec
	embeddingRequestTime *prometheus.HistogramVec
	embeddingError       *prometheus.CounterVec
	searchFiltered       *prometheus.CounterVec
	danglingChunk        *prometheus.CounterVec
	unresolvedCitation   *prometheus.CounterVec
}

func NewMetrics(ns, system string) *Metrics {
	metrics.SetupMetricsManager(ns, system, prometheus.DefaultRegisterer.(*prometheus.Registry))

	m := &Metrics{
		apiResponseTime:      metrics.NewHistogramVec("api_response_time", []string{"api"}),
		apiErrorCounter:      metrics.NewCounterVec("api_error", []string{"method", "api", "status"}),
		embeddingRequestTime: metrics.NewHistogramVec("embedding_request_time", []string{"model"}),
		embeddingError:       metrics.NewCounterVec("embedding_error", []string{"model"}),
		searchFiltered:       metrics.NewCounterVec("search_filtered", []string{"reason"}),
		danglingChunk:        metrics.NewCounterVec("dangling_chunk", []string{"source_type"}),
		unresolvedCitation:   metrics.NewCounterVec("unresolved_citation", []string{"type"}),
	}

	return m
}

func (m *Metrics) ApiResponseTimer(api string) *prometheus.Timer {
	return prometheus.NewTimer(m.apiResponseTime.WithLabelValues(api))
}

func (m *Metrics) ApiResponseTime(api string, d time.Duration) {
	m.apiResponseTime.WithLabelValues(api).Observe(d.Seconds())
}

func (m *Metrics) ApiErrorInc(method, api string, status int) {
	m.apiErrorCounter.WithLabelValues(method, api, strconv.Itoa(status)).Inc()
}

func (m *Metrics) EmbeddingRequestTimer(model string) *prometheus.Timer {
	return prometheus.NewTimer(m.embeddingRequestTime.WithLabelValues(model))
}

func (m *Metrics) EmbeddingErrorInc(model string) {
	m.embeddingError.WithLabelValues(model).Inc()
}

func (m *Metrics) SearchFilteredAdd(reason string, count int) {
	if count <= 0 {
		return
	}
	m.searchFiltered.WithLabelValues(reason).Add(float64(count))
}

func (m *Metrics) DanglingChunkInc(sourceType string) {
	m.danglingChunk.WithLabelValues(sourceType).Inc()
}

func (m *Metrics) UnresolvedCitationInc(citationType string) {
	m.unresolvedCitation.WithLabelValues(citationType).Inc()
}
