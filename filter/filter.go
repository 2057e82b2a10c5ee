package filter

import (
	"context"

	"github.com/rushteam/bundlerec/core"
)

// Filter 判断一个候选是否应该被过滤掉。返回 true 表示移除。
type Filter interface {
	Name() string

	ShouldFilter(ctx context.Context, bctx *core.BookingContext, item *core.Item) (bool, error)
}
