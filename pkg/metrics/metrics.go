// Package metrics wraps one process-wide prometheus registry. Register
// errors are swallowed so constructing the same collector twice, as tests
// do, returns a working vec instead of panicking.
package metrics

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var def = struct {
	namespace string
	subsystem string
	registry  *prometheus.Registry
}{
	namespace: "default",
	subsystem: "default",
	registry:  prometheus.NewRegistry(),
}

// SetupMetricsManager points the package at the given registry and adds the
// Go runtime collector to it.
func SetupMetricsManager(namespace, subsystem string, registry *prometheus.Registry) {
	def.namespace = namespace
	def.subsystem = subsystem
	def.registry = registry
	_ = registry.Register(collectors.NewGoCollector())
}

func NewCounterVec(name string, labels []string) *prometheus.CounterVec {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: sanitize(def.namespace),
		Subsystem: sanitize(def.subsystem),
		Name:      sanitize(name),
		Help:      fmt.Sprintf("%s count of /%s/%s", name, def.namespace, def.subsystem),
	}, labels)
	vec.WithLabelValues(make([]string, len(labels))...).Add(0)
	_ = def.registry.Register(vec)
	return vec
}

func NewHistogramVec(name string, labels []string) *prometheus.HistogramVec {
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: sanitize(def.namespace),
		Subsystem: sanitize(def.subsystem),
		Name:      sanitize(name),
		Help:      fmt.Sprintf("%s duration of /%s/%s", name, def.namespace, def.subsystem),
	}, labels)
	vec.WithLabelValues(make([]string, len(labels))...).Observe(0)
	_ = def.registry.Register(vec)
	return vec
}

// DefaultExportHandler serves the registry on a gin route.
func DefaultExportHandler() gin.HandlerFunc {
	h := promhttp.InstrumentMetricHandler(def.registry, promhttp.HandlerFor(def.registry, promhttp.HandlerOpts{}))
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

func sanitize(in string) string {
	out := make([]byte, len(in))
	for i := 0; i < len(in); i++ {
		switch in[i] {
		case '.', '-':
			out[i] = '_'
		default:
			out[i] = in[i]
		}
	}
	return string(out)
}
