package filter

import (
	"context"

	"github.com/rushteam/bundlerec/core"
	"github.com/rushteam/bundlerec/pkg/dsl"
)

// ExprFilter 用 CEL 表达式描述"保留"条件，表达式为 false 的候选被移除。
// 例如 `item.prob >= 0.05` 或 `!("Kids club" in item.bundle) || booking.children > 0`。
type ExprFilter struct {
	prg *dsl.Program
}

func NewExprFilter(expr string) (*ExprFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{prg: prg}, nil
}

func (f *ExprFilter) Name() string { return "expr" }

func (f *ExprFilter) ShouldFilter(_ context.Context, bctx *core.BookingContext, item *core.Item) (bool, error) {
	keep, err := f.prg.Eval(item, bctx)
	if err != nil {
		return false, err
	}
	return !keep, nil
}
