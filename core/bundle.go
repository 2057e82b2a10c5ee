package core

import (
	"sort"
	"strings"
)

// bundleKeySep 不会出现在服务项名称中（名称来自训练数据的单行文本）。
const bundleKeySep = "\n"

// BundleSet 是 bundle 的集合视图。
type BundleSet map[string]struct{}

func NewBundleSet(items []string) BundleSet {
	s := make(BundleSet, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

func (s BundleSet) Has(item string) bool {
	_, ok := s[item]
	return ok
}

// Equal 判断两个集合是否完全相同。
func (s BundleSet) Equal(other BundleSet) bool {
	if len(s) != len(other) {
		return false
	}
	for k := range s {
		if !other.Has(k) {
			return false
		}
	}
	return true
}

// Sorted 返回升序排列的成员。
func (s BundleSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// BundleKey 返回 bundle 的规范化标识：去重、排序后拼接。
// 与容器的哈希/顺序无关，可作为外部"已选 bundle"集合的 key。
func BundleKey(items []string) string {
	return strings.Join(NewBundleSet(items).Sorted(), bundleKeySep)
}

// ParseBundleKey 是 BundleKey 的逆操作。
func ParseBundleKey(key string) []string {
	if key == "" {
		return nil
	}
	return strings.Split(key, bundleKeySep)
}

// Recommendation 是 bundle 排序的输出：Bundle 保留注册表中的原始顺序与重复项。
type Recommendation struct {
	Bundle []string `json:"bundle"`
	Prob   float64  `json:"prob"`
}

// UpsaleCandidate 是追加销售的输出。Bundle 为排序后的集合；
// NewItems 是 bundle 中尚未购买的服务项。
type UpsaleCandidate struct {
	Bundle   []string `json:"bundle"`
	Prob     float64  `json:"prob"`
	Score    float64  `json:"score"`
	NewItems []string `json:"new_items"`
}
