package rerank

import (
	"context"

	"github.com/rushteam/bundlerec/core"
	"github.com/rushteam/bundlerec/pipeline"
)

// TopNNode 在排序后截取前 N 个候选，通常跟在 SortNode 之后。
//
// 示例：
//
//	p := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &recall.RegistryRecall{...},
//	        &rank.ProbaNode{},
//	        &rerank.SortNode{By: rerank.SortByProb},
//	        &rerank.TopNNode{N: 10},
//	    },
//	}
type TopNNode struct {
	// N <= 0 时不截断
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.BookingContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.N <= 0 || len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}
