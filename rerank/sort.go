package rerank

import (
	"context"
	"fmt"
	"sort"

	"github.com/rushteam/bundlerec/core"
	"github.com/rushteam/bundlerec/pipeline"
)

// 排序字段
const (
	SortByProb  = "prob"
	SortByScore = "score"
)

// SortNode 按 Prob 或 Score 降序稳定排序，分数相同时保持注册表顺序。
type SortNode struct {
	By string
}

func (n *SortNode) Name() string        { return "rerank.sort" }
func (n *SortNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *SortNode) Process(
	_ context.Context,
	_ *core.BookingContext,
	items []*core.Item,
) ([]*core.Item, error) {
	var key func(*core.Item) float64
	switch n.By {
	case SortByProb:
		key = func(it *core.Item) float64 { return it.Prob }
	case SortByScore, "":
		key = func(it *core.Item) float64 { return it.Score }
	default:
		return nil, fmt.Errorf("unknown sort field: %q", n.By)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		return key(items[i]) > key(items[j])
	})
	return items, nil
}
