package rerank

import (
	"context"
	"strconv"

	"github.com/rushteam/bundlerec/core"
	"github.com/rushteam/bundlerec/pipeline"
	"github.com/rushteam/bundlerec/pkg/utils"
)

// UpsaleNode 根据已购服务项给候选 bundle 打追加销售分。
//
//   - bundle 集合与已购集合完全相同：score = 0（已全部拥有，不再推荐）
//   - 否则：score = k × prob，k 为 bundle 中命中的已购服务项个数（已购列表按集合去重）
//
// 只写 item.Score，不过滤也不排序。
type UpsaleNode struct {
	Bought []string
}

func (n *UpsaleNode) Name() string        { return "rerank.upsale" }
func (n *UpsaleNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *UpsaleNode) Process(
	_ context.Context,
	_ *core.BookingContext,
	items []*core.Item,
) ([]*core.Item, error) {
	bought := core.NewBundleSet(n.Bought)
	for _, it := range items {
		if it == nil {
			continue
		}
		set := it.Set()
		if set.Equal(bought) {
			it.Score = 0
			it.PutLabel("upsale", utils.Label{Value: "self_match", Source: "upsale"})
			continue
		}
		matched := 0
		for item := range bought {
			if set.Has(item) {
				matched++
			}
		}
		it.Score = float64(matched) * it.Prob
		if matched > 0 {
			it.PutLabel("upsale", utils.Label{Value: "overlap_" + strconv.Itoa(matched), Source: "upsale"})
		}
	}
	return items, nil
}
