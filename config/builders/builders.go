package builders

import (
	"fmt"

	"github.com/rushteam/bundlerec/config"
	"github.com/rushteam/bundlerec/filter"
	"github.com/rushteam/bundlerec/pipeline"
	"github.com/rushteam/bundlerec/pkg/conv"
	"github.com/rushteam/bundlerec/rerank"
)

func init() {
	config.Register("filter.expr", BuildExprFilterNode)
	config.Register("filter.score", BuildScoreFilterNode)
	config.Register("rerank.sort", BuildSortNode)
	config.Register("rerank.topn", BuildTopNNode)
}

func BuildExprFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	expr := conv.ConfigGet(cfg, "expr", "")
	if expr == "" {
		return nil, fmt.Errorf("expr not found")
	}
	f, err := filter.NewExprFilter(expr)
	if err != nil {
		return nil, fmt.Errorf("filter.expr %q: %w", expr, err)
	}
	return &filter.FilterNode{Filters: []filter.Filter{f}}, nil
}

func BuildScoreFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &filter.FilterNode{Filters: []filter.Filter{
		&filter.ScoreFilter{Min: conv.ConfigGetFloat64(cfg, "min", 0)},
	}}, nil
}

func BuildSortNode(cfg map[string]interface{}) (pipeline.Node, error) {
	by := conv.ConfigGet(cfg, "by", rerank.SortByScore)
	if by != rerank.SortByProb && by != rerank.SortByScore {
		return nil, fmt.Errorf("unknown sort field: %q", by)
	}
	return &rerank.SortNode{By: by}, nil
}

func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	n := conv.ConfigGetInt64(cfg, "n", 0)
	if n < 0 {
		return nil, fmt.Errorf("rerank.topn: n must be >= 0, got %d", n)
	}
	return &rerank.TopNNode{N: int(n)}, nil
}
