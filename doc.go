// Package bundlerec 为酒店预订推荐服务组合（bundle）。
//
// 设计要点：
// - 注册表：每个 (酒店, bundle) 对自带特征列表、类别映射表与一个不透明的概率模型
// - Pipeline-first: 一次调用就是 Recall → Rank → ReRank 的 Node 链，可追加 filter / topn 等后处理
// - 两个操作：RankBundles 给出每个 bundle 的概率；Upsale 按已购服务项给 bundle 打追加销售分
package bundlerec

import (
	"github.com/rushteam/bundlerec/core"
	"github.com/rushteam/bundlerec/pipeline"
	"github.com/rushteam/bundlerec/registry"
	"github.com/rushteam/bundlerec/service"
)

// 轻量 facade：便于直接 import "bundlerec" 使用核心抽象。
type (
	Pipeline        = pipeline.Pipeline
	Node            = pipeline.Node
	Kind            = pipeline.Kind
	BookingContext  = core.BookingContext
	Recommendation  = core.Recommendation
	UpsaleCandidate = core.UpsaleCandidate
	Recommender     = service.Recommender
	Registry        = registry.Registry
)

const (
	KindRecall = pipeline.KindRecall
	KindFilter = pipeline.KindFilter
	KindRank   = pipeline.KindRank
	KindReRank = pipeline.KindReRank
)

// NewRecommender 是 service.NewRecommender 的别名。
func NewRecommender(reg *Registry, opts ...service.Option) *Recommender {
	return service.NewRecommender(reg, opts...)
}

// LoadRegistry 从 YAML / JSON 文件加载注册表。
func LoadRegistry(path string) (*Registry, error) {
	return registry.LoadFile(path)
}
