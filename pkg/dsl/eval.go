package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/bundlerec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("booking", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Program 是编译好的 CEL 表达式，线程安全，可对多个候选重复求值。
//
// 可用变量：
//   - item.bundle (list<string>) / item.prob / item.score / item.size
//   - label.<key>：item 的 label 值，例如 label.rank_model == "logistic"
//   - booking.hotel / adults / children / infants / month / nights / weekend / holiday / origin
//
// 示例：
//   - `item.prob >= 0.05`
//   - `!("Kids club" in item.bundle) || booking.children + booking.infants > 0`
//   - `booking.origin == "Oversea" && item.size <= 3`
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式，表达式必须返回 bool。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// String 返回原始表达式。
func (p *Program) String() string { return p.expr }

// Eval 对一个候选求值。
func (p *Program) Eval(item *core.Item, bctx *core.BookingContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(item, bctx))
	if err != nil {
		// 访问不存在的 label 会报错，表达式里应先判断 label.key != null
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(item *core.Item, bctx *core.BookingContext) map[string]interface{} {
	labels := make(map[string]interface{}, len(item.Labels))
	for k, v := range item.Labels {
		labels[k] = v.Value
	}

	bundle := make([]string, len(item.Bundle))
	copy(bundle, item.Bundle)

	booking := map[string]interface{}{}
	if bctx != nil {
		booking = map[string]interface{}{
			"hotel":    bctx.Hotel,
			"adults":   int64(bctx.Adults),
			"children": int64(bctx.Children),
			"infants":  int64(bctx.Infants),
			"month":    int64(bctx.Month),
			"nights":   int64(bctx.Nights),
			"weekend":  bctx.Weekend,
			"holiday":  bctx.Holiday,
			"origin":   bctx.Origin,
		}
	}

	return map[string]interface{}{
		"item": map[string]interface{}{
			"bundle": bundle,
			"prob":   item.Prob,
			"score":  item.Score,
			"size":   int64(len(item.Set())),
		},
		"label":   labels,
		"booking": booking,
	}
}
