package service

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/rushteam/bundlerec/core"
	"github.com/rushteam/bundlerec/filter"
	"github.com/rushteam/bundlerec/pipeline"
	"github.com/rushteam/bundlerec/rank"
	"github.com/rushteam/bundlerec/recall"
	"github.com/rushteam/bundlerec/registry"
	"github.com/rushteam/bundlerec/rerank"
)

// 操作名，用于日志与指标
const (
	OpRank    = "rank"
	OpCurated = "curated"
	OpUpsale  = "upsale"
)

// Recommender 对外提供两个操作：bundle 排序与追加销售。
//
// 每次调用都是独立的同步计算，只读共享的 Registry，可被多个请求并发调用。
type Recommender struct {
	registry *registry.Registry
	logger   zerolog.Logger
	metrics  *Metrics
	post     []pipeline.Node
}

// Option 配置 Recommender
type Option func(*Recommender)

// WithLogger 设置日志
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Recommender) {
		r.logger = logger.With().Str("component", "recommender").Logger()
	}
}

// WithMetrics 设置 Prometheus 指标
func WithMetrics(m *Metrics) Option {
	return func(r *Recommender) {
		r.metrics = m
	}
}

// WithPostPipeline 设置后处理 Node（例如 filter.expr、rerank.topn），只作用于 CuratedBundles。
// RankBundles 与 Upsale 始终返回完整结果。
func WithPostPipeline(p *pipeline.Pipeline) Option {
	return func(r *Recommender) {
		if p != nil {
			r.post = append(r.post, p.Nodes...)
		}
	}
}

func NewRecommender(reg *registry.Registry, opts ...Option) *Recommender {
	r := &Recommender{
		registry: reg,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Hotels 返回注册表中的酒店名。
func (r *Recommender) Hotels() []string {
	return r.registry.Hotels()
}

func (r *Recommender) scoringPipeline() *pipeline.Pipeline {
	node := &rank.ProbaNode{}
	if r.metrics != nil {
		node.Observer = r.metrics
	}
	return &pipeline.Pipeline{Nodes: []pipeline.Node{
		&recall.RegistryRecall{Registry: r.registry},
		node,
	}}
}

// RankBundles 为酒店的每个注册条目返回一个 Recommendation（注册表顺序，未排序）。
// 没有匹配的条目时返回空切片。任一条目的模型出错都会中止整次调用。
func (r *Recommender) RankBundles(ctx context.Context, bc core.BookingContext) ([]core.Recommendation, error) {
	items, err := r.run(ctx, OpRank, &bc, r.scoringPipeline())
	if err != nil {
		return nil, err
	}
	return recommendations(items), nil
}

// CuratedBundles 在打分结果上执行后处理 Pipeline（过滤、排序、截断），
// 结果可能少于注册条目数。未配置后处理时与 RankBundles 相同。
func (r *Recommender) CuratedBundles(ctx context.Context, bc core.BookingContext) ([]core.Recommendation, error) {
	items, err := r.run(ctx, OpCurated, &bc, r.scoringPipeline().With(r.post...))
	if err != nil {
		return nil, err
	}
	return recommendations(items), nil
}

func recommendations(items []*core.Item) []core.Recommendation {
	out := make([]core.Recommendation, 0, len(items))
	for _, it := range items {
		out = append(out, core.Recommendation{Bundle: it.Bundle, Prob: it.Prob})
	}
	return out
}

// TopBundles 返回按概率降序的前 n 个 Recommendation，n <= 0 时返回全部。
func (r *Recommender) TopBundles(ctx context.Context, bc core.BookingContext, n int) ([]core.Recommendation, error) {
	recs, err := r.RankBundles(ctx, bc)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Prob > recs[j].Prob })
	if n > 0 && len(recs) > n {
		recs = recs[:n]
	}
	return recs, nil
}

// Upsale 重新执行一次排序，然后按已购服务项给 bundle 打分。
// 返回全部 Score > 0 的候选（至少与已购集合有一个交集，且不与之完全相同），按 Score 降序。
func (r *Recommender) Upsale(ctx context.Context, bc core.BookingContext, bought []string) ([]core.UpsaleCandidate, error) {
	items, err := r.run(ctx, OpUpsale, &bc, r.upsalePipeline(bought))
	if err != nil {
		return nil, err
	}
	boughtSet := core.NewBundleSet(bought)
	out := make([]core.UpsaleCandidate, 0, len(items))
	for _, it := range items {
		set := it.Set()
		newItems := make([]string, 0, len(set))
		for _, item := range set.Sorted() {
			if !boughtSet.Has(item) {
				newItems = append(newItems, item)
			}
		}
		out = append(out, core.UpsaleCandidate{
			Bundle:   set.Sorted(),
			Prob:     it.Prob,
			Score:    it.Score,
			NewItems: newItems,
		})
	}
	return out, nil
}

func (r *Recommender) upsalePipeline(bought []string) *pipeline.Pipeline {
	return r.scoringPipeline().With(
		&rerank.UpsaleNode{Bought: bought},
		&filter.FilterNode{Filters: []filter.Filter{&filter.ScoreFilter{Min: 0}}},
		&rerank.SortNode{By: rerank.SortByScore},
	)
}

func (r *Recommender) run(ctx context.Context, op string, bc *core.BookingContext, p *pipeline.Pipeline) ([]*core.Item, error) {
	log := r.logger.With().Str("op", op).Str("hotel", bc.Hotel).Logger()

	if err := bc.Validate(); err != nil {
		log.Warn().Err(err).Msg("rejected booking context")
		r.observe(op, 0, err)
		return nil, err
	}

	items, err := p.Run(ctx, bc, nil)
	if err != nil {
		log.Error().Err(err).Msg("pipeline failed")
		r.observe(op, 0, err)
		return nil, err
	}

	log.Debug().Int("candidates", len(items)).Msg("pipeline done")
	r.observe(op, len(items), nil)
	return items, nil
}

func (r *Recommender) observe(op string, n int, err error) {
	if r.metrics != nil {
		r.metrics.observeCall(op, n, err)
	}
}

// BoughtItems 把用户已选的多个 bundle 展开为已购服务项列表（保留重复项，由 Upsale 按集合处理）。
func BoughtItems(selected [][]string) []string {
	var out []string
	for _, bundle := range selected {
		out = append(out, bundle...)
	}
	return out
}
