package filter

import (
	"context"

	"github.com/rushteam/bundlerec/core"
)

// ScoreFilter 移除 Score <= Min 的候选。追加销售使用 Min = 0。
type ScoreFilter struct {
	Min float64
}

func (f *ScoreFilter) Name() string { return "score" }

func (f *ScoreFilter) ShouldFilter(_ context.Context, _ *core.BookingContext, item *core.Item) (bool, error) {
	return item.Score <= f.Min, nil
}
