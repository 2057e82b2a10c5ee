package pipeline

import (
	"context"

	"github.com/rushteam/bundlerec/core"
)

// Kind 用于标记 Node 类型，方便观测/编排（例如按阶段打点）。
type Kind string

const (
	KindRecall Kind = "recall" // 召回阶段：从注册表取出酒店的候选 bundle
	KindFilter Kind = "filter" // 过滤阶段：剔除不符合约束的候选
	KindRank   Kind = "rank"   // 打分阶段：模型给出 bundle 概率
	KindReRank Kind = "rerank" // 重排阶段：追加销售打分、排序、截断
)

// Node 是 Pipeline 的最小可扩展单元，统一采用"输入 items -> 输出 items"的形态。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		bctx *core.BookingContext,
		items []*core.Item,
	) ([]*core.Item, error)
}

// NodeBuilder 根据配置构建 Node。
type NodeBuilder func(map[string]interface{}) (Node, error)
