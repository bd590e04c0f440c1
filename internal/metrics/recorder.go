// Package metrics records controller activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"sync"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/petpal/internal/persistence"
)

// Recorder is the set of observations the application emits.
type Recorder interface {
	persistence.FailureRecorder
	IncNavigation(screen string)
	IncSessionTransition(transition string)
	IncValidationFailure(operation string)
	IncSearchCache(result string)
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

func (NoopRecorder) IncPersistenceFailure(string, persistence.Key) {}
func (NoopRecorder) IncNavigation(string)                          {}
func (NoopRecorder) IncSessionTransition(string)                   {}
func (NoopRecorder) IncValidationFailure(string)                   {}
func (NoopRecorder) IncSearchCache(string)                         {}

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once                sync.Once
	registry            *prom.Registry
	navigations         *prom.CounterVec
	sessionTransitions  *prom.CounterVec
	persistenceFailures *prom.CounterVec
	validationFailures  *prom.CounterVec
	searchCache         *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the metrics on reg, or on a
// fresh registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.once.Do(func() {
		pr.navigations = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "petpal",
			Name:      "navigations_total",
			Help:      "Navigation requests by resolved screen",
		}, []string{"screen"})
		pr.sessionTransitions = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "petpal",
			Name:      "session_transitions_total",
			Help:      "Login and logout transitions by kind",
		}, []string{"transition"})
		pr.persistenceFailures = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "petpal",
			Name:      "persistence_failures_total",
			Help:      "Swallowed persistence failures by operation and key",
		}, []string{"operation", "key"})
		pr.validationFailures = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "petpal",
			Name:      "validation_failures_total",
			Help:      "Rejected form submissions by operation",
		}, []string{"operation"})
		pr.searchCache = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "petpal",
			Name:      "sitter_search_cache_total",
			Help:      "Sitter search cache lookups by result",
		}, []string{"result"})
		reg.MustRegister(pr.navigations, pr.sessionTransitions, pr.persistenceFailures, pr.validationFailures, pr.searchCache)
	})
	return pr
}

func (p *PrometheusRecorder) IncNavigation(screen string) {
	if p == nil || p.navigations == nil {
		return
	}
	p.navigations.WithLabelValues(screen).Inc()
}

func (p *PrometheusRecorder) IncSessionTransition(transition string) {
	if p == nil || p.sessionTransitions == nil {
		return
	}
	p.sessionTransitions.WithLabelValues(transition).Inc()
}

func (p *PrometheusRecorder) IncPersistenceFailure(op string, key persistence.Key) {
	if p == nil || p.persistenceFailures == nil {
		return
	}
	p.persistenceFailures.WithLabelValues(op, key.String()).Inc()
}

func (p *PrometheusRecorder) IncValidationFailure(operation string) {
	if p == nil || p.validationFailures == nil {
		return
	}
	p.validationFailures.WithLabelValues(operation).Inc()
}

func (p *PrometheusRecorder) IncSearchCache(result string) {
	if p == nil || p.searchCache == nil {
		return
	}
	p.searchCache.WithLabelValues(result).Inc()
}

// Handler serves the recorder's registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
