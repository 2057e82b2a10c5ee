package pipeline

import (
	"context"
	"fmt"

	"github.com/rushteam/bundlerec/core"
)

// Pipeline 把一次推荐拆成可组合的 Node 链，任何 Node 出错都会中止整条链。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	bctx *core.BookingContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, bctx, cur)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", node.Name(), err)
		}
		cur = next
	}
	return cur, nil
}

// With 返回追加了 nodes 的新 Pipeline，不修改原 Pipeline。
func (p *Pipeline) With(nodes ...Node) *Pipeline {
	out := make([]Node, 0, len(p.Nodes)+len(nodes))
	out = append(out, p.Nodes...)
	out = append(out, nodes...)
	return &Pipeline{Nodes: out}
}
