package testfixtures

import (
	"sync"

	"github.com/example/petpal/internal/persistence"
)

// Metric kinds counted by MetricsSpy.
const (
	MetricNavigation  = "navigation"
	MetricSession     = "session"
	MetricPersistence = "persistence"
	MetricValidation  = "validation"
	MetricSearchCache = "search_cache"
)

// MetricsSpy records every observation in memory so tests can assert on them.
type MetricsSpy struct {
	mu     sync.Mutex
	counts map[string]int
}

func NewMetricsSpy() *MetricsSpy {
	return &MetricsSpy{counts: make(map[string]int)}
}

func (m *MetricsSpy) inc(kind, label string) {
	m.mu.Lock()
	m.counts[kind+"/"+label]++
	m.mu.Unlock()
}

func (m *MetricsSpy) IncPersistenceFailure(op string, key persistence.Key) {
	m.inc(MetricPersistence, op+":"+key.String())
}

func (m *MetricsSpy) IncNavigation(screen string)            { m.inc(MetricNavigation, screen) }
func (m *MetricsSpy) IncSessionTransition(transition string) { m.inc(MetricSession, transition) }
func (m *MetricsSpy) IncValidationFailure(operation string)  { m.inc(MetricValidation, operation) }
func (m *MetricsSpy) IncSearchCache(result string)           { m.inc(MetricSearchCache, result) }

// Count returns how often kind was observed with label. Persistence labels
// are "<op>:<key>".
func (m *MetricsSpy) Count(kind, label string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[kind+"/"+label]
}
