package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rushteam/bundlerec/core"
)

// Metrics 是推荐服务的 Prometheus 指标。
type Metrics struct {
	Requests   *prometheus.CounterVec
	Inference  *prometheus.HistogramVec
	Candidates *prometheus.HistogramVec
}

// NewMetrics 创建并注册指标。reg 为 nil 时不注册（测试用）。
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bundlerec",
			Name:      "requests_total",
			Help:      "Ranking and upsale calls by operation and outcome.",
		}, []string{"op", "outcome"}),
		Inference: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bundlerec",
			Name:      "inference_seconds",
			Help:      "Latency of a single model predict_proba call.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"model", "outcome"}),
		Candidates: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bundlerec",
			Name:      "candidates",
			Help:      "Number of bundles returned per call.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		}, []string{"op"}),
	}
	if reg != nil {
		reg.MustRegister(m.Requests, m.Inference, m.Candidates)
	}
	return m
}

// ObserveInference 实现 rank.Observer。
func (m *Metrics) ObserveInference(modelName string, elapsed time.Duration, err error) {
	m.Inference.WithLabelValues(modelName, outcome(err)).Observe(elapsed.Seconds())
}

func (m *Metrics) observeCall(op string, n int, err error) {
	m.Requests.WithLabelValues(op, outcome(err)).Inc()
	if err == nil {
		m.Candidates.WithLabelValues(op).Observe(float64(n))
	}
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if de := core.GetDomainError(err); de != nil {
		return de.Code
	}
	return "error"
}
