package model

import "context"

// StaticModel 总是返回固定的概率分布，用于离线演示与测试。
type StaticModel struct {
	name         string
	Distribution []float64
}

func NewStaticModel(name string, distribution ...float64) *StaticModel {
	return &StaticModel{name: name, Distribution: distribution}
}

func (m *StaticModel) Name() string {
	if m.name == "" {
		return "static"
	}
	return m.name
}

func (m *StaticModel) PredictProba(_ context.Context, _ []float64) ([]float64, error) {
	out := make([]float64, len(m.Distribution))
	copy(out, m.Distribution)
	return out, nil
}
