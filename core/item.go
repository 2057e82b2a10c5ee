package core

import "github.com/rushteam/bundlerec/pkg/utils"

// Item 是推荐链路中的统一承载结构：一个候选 bundle、模型概率、追加销售分数、标签。
// Entry 指向产生它的注册表条目（由 recall 写入，rank 读取），对 core 不透明。
type Item struct {
	Bundle []string
	Prob   float64
	Score  float64
	Entry  any
	Labels map[string]utils.Label
}

func NewItem(bundle []string) *Item {
	b := make([]string, len(bundle))
	copy(b, bundle)
	return &Item{
		Bundle: b,
		Labels: make(map[string]utils.Label),
	}
}

// Set 返回 bundle 的集合视图（重复项合并）。
func (it *Item) Set() BundleSet {
	return NewBundleSet(it.Bundle)
}

// Key 返回 bundle 的规范化标识。
func (it *Item) Key() string {
	return BundleKey(it.Bundle)
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}
