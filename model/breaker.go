package model

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerSettings 熔断参数。
type BreakerSettings struct {
	// ConsecutiveFailures 连续失败多少次后熔断，默认 5
	ConsecutiveFailures uint32
	// OpenTimeout 熔断后多久进入半开状态，默认 30s
	OpenTimeout time.Duration
	// OnStateChange 状态变化回调（可选，用于日志/监控）
	OnStateChange func(name string, from, to gobreaker.State)
}

// BreakerModel 给任意 ProbaModel 加熔断：下游推理服务持续失败时直接快速失败。
// 不做重试，熔断打开时返回 gobreaker.ErrOpenState，由 ClassZero 包装为 MODEL_INFERENCE。
type BreakerModel struct {
	inner ProbaModel
	cb    *gobreaker.CircuitBreaker[[]float64]
}

func NewBreakerModel(inner ProbaModel, s BreakerSettings) *BreakerModel {
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 5
	}
	if s.OpenTimeout == 0 {
		s.OpenTimeout = 30 * time.Second
	}
	threshold := s.ConsecutiveFailures
	return &BreakerModel{
		inner: inner,
		cb: gobreaker.NewCircuitBreaker[[]float64](gobreaker.Settings{
			Name:    inner.Name(),
			Timeout: s.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			OnStateChange: s.OnStateChange,
		}),
	}
}

func (m *BreakerModel) Name() string { return m.inner.Name() }

// State 返回当前熔断状态。
func (m *BreakerModel) State() gobreaker.State { return m.cb.State() }

func (m *BreakerModel) PredictProba(ctx context.Context, vector []float64) ([]float64, error) {
	return m.cb.Execute(func() ([]float64, error) {
		return m.inner.PredictProba(ctx, vector)
	})
}
