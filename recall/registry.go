package recall

import (
	"context"

	"github.com/rushteam/bundlerec/core"
	"github.com/rushteam/bundlerec/pipeline"
	"github.com/rushteam/bundlerec/pkg/utils"
	"github.com/rushteam/bundlerec/registry"
)

// RegistryRecall 为酒店的每个注册条目生成一个候选 Item，顺序与注册表一致。
// 输入 items 被忽略：每次调用都从注册表重新召回，不复用上一次的结果。
type RegistryRecall struct {
	Registry *registry.Registry
}

func (n *RegistryRecall) Name() string        { return "recall.registry" }
func (n *RegistryRecall) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *RegistryRecall) Process(
	_ context.Context,
	bctx *core.BookingContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	entries := n.Registry.ForHotel(bctx.Hotel)
	items := make([]*core.Item, 0, len(entries))
	for _, e := range entries {
		it := core.NewItem(e.Bundle)
		it.Entry = e
		it.PutLabel("recall_source", utils.Label{Value: "registry", Source: "recall"})
		items = append(items, it)
	}
	return items, nil
}
