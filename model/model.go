package model

import (
	"context"
	"math"

	"github.com/rushteam/bundlerec/core"
)

// ProbaModel 是注册表里"不透明模型"的最小抽象：输入一个定长数值向量，输出各类别的概率分布。
// 具体实现可以是本地模型（逻辑回归）或远程 RPC（sklearn / XGBoost 推理服务）。
//
// 类别 0 的含义由训练方约定，核心只取 distribution[0] 作为 bundle 的相关概率。
type ProbaModel interface {
	Name() string
	PredictProba(ctx context.Context, vector []float64) ([]float64, error)
}

// ClassZero 调用模型并取类别 0 的概率。
// 模型报错、分布为空、或概率不在 [0, 1] 都是 MODEL_INFERENCE 错误。
func ClassZero(ctx context.Context, m ProbaModel, vector []float64) (float64, error) {
	dist, err := m.PredictProba(ctx, vector)
	if err != nil {
		if core.IsModelInferenceError(err) {
			return 0, err
		}
		return 0, core.ModelInferenceError(m.Name(), err)
	}
	if len(dist) == 0 {
		return 0, core.ModelInferenceError(m.Name(), errEmptyDistribution)
	}
	p := dist[0]
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, core.ModelInferenceError(m.Name(), &probabilityRangeError{p: p})
	}
	return p, nil
}
