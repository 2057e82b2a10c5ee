package utils

import (
	"slices"
	"strings"
)

// Label 用于解释一个候选 bundle 是怎么来的：哪个模型打的分、是否被追加销售命中等。
// Value 与 Source 的语义由各 Node 自定义，这里只提供标准化的合并规则。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // recall / rank / upsale / filter ...
}

// MergeLabel 合并同名 Label。Value 以 '|' 累积，Source 以 ',' 累积，
// 已出现过的片段不会重复追加（同一个 Node 对同一候选打两次标签时结果不变）。
func MergeLabel(existing Label, incoming Label) Label {
	return Label{
		Value:  appendPart(existing.Value, incoming.Value, "|"),
		Source: appendPart(existing.Source, incoming.Source, ","),
	}
}

func appendPart(acc, part, sep string) string {
	switch {
	case part == "":
		return acc
	case acc == "":
		return part
	}
	parts := strings.Split(acc, sep)
	for _, p := range strings.Split(part, sep) {
		if p != "" && !slices.Contains(parts, p) {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, sep)
}
