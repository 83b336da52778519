// Package metrics - счетчики prometheus для guard'а и кэша ответов.
// Методы безопасно вызывать на nil *Metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "tag_service"

// Исходы guard'а.
const (
	OutcomeAllow   = "allow"
	OutcomeRotated = "rotated"
	OutcomeDeny    = "deny"
)

type Metrics struct {
	guardDecisions *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
	cacheErrors    *prometheus.CounterVec
}

func New(registerer prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		guardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth_guard",
			Name:      "decisions_total",
			Help:      "Решения guard'а по исходу и причине отказа.",
		}, []string{"outcome", "reason"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "response_cache",
			Name:      "lookups_total",
			Help:      "Обращения к кэшу ответов по форме ответа и результату.",
		}, []string{"shape", "result"}),
		cacheErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "response_cache",
			Name:      "errors_total",
			Help:      "Ошибки операций кэша ответов.",
		}, []string{"operation"}),
	}

	if registerer != nil {
		registerer.MustRegister(metrics.guardDecisions, metrics.cacheLookups, metrics.cacheErrors)
	}

	return metrics
}

func (metrics *Metrics) GuardDecision(outcome string, reason string) {
	if metrics == nil {
		return
	}
	metrics.guardDecisions.WithLabelValues(outcome, reason).Inc()
}

func (metrics *Metrics) CacheLookup(shape string, hit bool) {
	if metrics == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	metrics.cacheLookups.WithLabelValues(shape, result).Inc()
}

func (metrics *Metrics) CacheError(operation string) {
	if metrics == nil {
		return
	}
	metrics.cacheErrors.WithLabelValues(operation).Inc()
}
