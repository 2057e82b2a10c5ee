package model

import (
	"context"
	"math"
	"os"

	"github.com/goccy/go-json"
)

// LogisticModel 实现逻辑回归的 predict_proba，系数布局与 scikit-learn 一致。
//
//   - 二分类：Coef 只有一行，P(class1) = sigmoid(Coef[0]·x + Intercept[0])，输出 [1-p, p]
//   - 多分类：Coef 每个类别一行，输出 softmax(Coef·x + Intercept)
type LogisticModel struct {
	name      string
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept"`
}

func NewLogisticModel(name string, coef [][]float64, intercept []float64) *LogisticModel {
	return &LogisticModel{name: name, Coef: coef, Intercept: intercept}
}

// LoadLogisticModel 从 JSON 文件加载系数：{"coef": [[...]], "intercept": [...]}。
func LoadLogisticModel(name, path string) (*LogisticModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m := &LogisticModel{name: name}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *LogisticModel) Name() string {
	if m.name == "" {
		return "logistic"
	}
	return m.name
}

func (m *LogisticModel) PredictProba(_ context.Context, vector []float64) ([]float64, error) {
	if len(m.Coef) == 0 {
		return nil, errEmptyModel
	}
	logits := make([]float64, len(m.Coef))
	for k, row := range m.Coef {
		if len(row) != len(vector) {
			return nil, &DimensionError{Want: len(row), Got: len(vector)}
		}
		z := 0.0
		if k < len(m.Intercept) {
			z = m.Intercept[k]
		}
		for i, w := range row {
			z += w * vector[i]
		}
		logits[k] = z
	}

	if len(logits) == 1 {
		p := 1 / (1 + math.Exp(-logits[0]))
		return []float64{1 - p, p}, nil
	}
	return softmax(logits), nil
}

func softmax(logits []float64) []float64 {
	maxZ := logits[0]
	for _, z := range logits[1:] {
		if z > maxZ {
			maxZ = z
		}
	}
	out := make([]float64, len(logits))
	sum := 0.0
	for i, z := range logits {
		out[i] = math.Exp(z - maxZ)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
