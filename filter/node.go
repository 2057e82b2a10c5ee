package filter

import (
	"context"
	"fmt"

	"github.com/rushteam/bundlerec/core"
	"github.com/rushteam/bundlerec/pipeline"
)

// FilterNode 组合多个过滤器，任何一个返回 true 的候选都会被移除。
// 过滤器出错时中止整个 Pipeline。
type FilterNode struct {
	Filters []Filter
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	bctx *core.BookingContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		drop := false
		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, bctx, item)
			if err != nil {
				return nil, fmt.Errorf("filter %s: %w", f.Name(), err)
			}
			if ok {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, item)
		}
	}
	return out, nil
}
