package rank

import (
	"context"
	"fmt"
	"time"

	"github.com/rushteam/bundlerec/core"
	"github.com/rushteam/bundlerec/feature"
	"github.com/rushteam/bundlerec/model"
	"github.com/rushteam/bundlerec/pipeline"
	"github.com/rushteam/bundlerec/pkg/utils"
	"github.com/rushteam/bundlerec/registry"
)

// Observer 接收每次模型推理的结果（可选，用于监控）。
type Observer interface {
	ObserveInference(modelName string, elapsed time.Duration, err error)
}

// ProbaNode 为每个候选组装特征向量、调用条目自己的模型，并把类别 0 的概率写入 item.Prob。
// - 写入 labels：rank_model
// - 不排序：输出顺序与输入（注册表顺序）一致
// - 任一条目出错即中止整次调用
type ProbaNode struct {
	Observer Observer
}

func (n *ProbaNode) Name() string        { return "rank.proba" }
func (n *ProbaNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ProbaNode) Process(
	ctx context.Context,
	bctx *core.BookingContext,
	items []*core.Item,
) ([]*core.Item, error) {
	for i, it := range items {
		if it == nil {
			continue
		}
		e, ok := it.Entry.(*registry.Entry)
		if !ok || e == nil {
			return nil, core.ConfigurationError(core.ModuleRank, "item %d has no registry entry", i)
		}

		vector, err := feature.Assemble(e.Features, bctx, e.Categories())
		if err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", i, core.BundleKey(e.Bundle), err)
		}

		prob, err := n.predict(ctx, e.Model, vector)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", i, core.BundleKey(e.Bundle), err)
		}
		it.Prob = prob
		it.PutLabel("rank_model", utils.Label{Value: e.Model.Name(), Source: "rank"})
	}
	return items, nil
}

func (n *ProbaNode) predict(ctx context.Context, m model.ProbaModel, vector []float64) (float64, error) {
	if n.Observer == nil {
		return model.ClassZero(ctx, m, vector)
	}
	start := time.Now()
	prob, err := model.ClassZero(ctx, m, vector)
	n.Observer.ObserveInference(m.Name(), time.Since(start), err)
	return prob, err
}
