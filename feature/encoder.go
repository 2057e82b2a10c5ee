package feature

import (
	"strconv"
	"strings"

	"github.com/rushteam/bundlerec/core"
)

// 儿童标记取值，对应模型训练时 kid_map 里的类别。
const (
	WithKid    = "with-kid"
	WithoutKid = "without-kid"
)

// RawMaps 是注册表条目里随模型一起保存的原始类别列表。
// 列表顺序即编码顺序（第一次出现的类别编码为 0）。
type RawMaps struct {
	Origins []string `yaml:"custom_origin_map" json:"custom_origin_map"`
	// Months 形如 "x/M"，只取最后一个 '/' 之后的月份数字
	Months []string `yaml:"month_map" json:"month_map"`
	Kids   []string `yaml:"kid_map" json:"kid_map"`
}

// LabelEncoder 把类别映射为整数（0, 1, 2, ...），按首次出现顺序分配。
type LabelEncoder[K comparable] struct {
	name  string
	index map[K]int
}

func newLabelEncoder[K comparable](name string, values []K) *LabelEncoder[K] {
	e := &LabelEncoder[K]{name: name, index: make(map[K]int, len(values))}
	for _, v := range values {
		if _, ok := e.index[v]; !ok {
			e.index[v] = len(e.index)
		}
	}
	return e
}

// Encode 返回类别的编码，未知类别是 CONFIGURATION 错误。
func (e *LabelEncoder[K]) Encode(v K) (int, error) {
	idx, ok := e.index[v]
	if !ok {
		return 0, core.ConfigurationError(core.ModuleFeature, "value %v not in %s", v, e.name)
	}
	return idx, nil
}

// Len 返回类别数。
func (e *LabelEncoder[K]) Len() int { return len(e.index) }

// CategoryMaps 是一个注册表条目的三张编码表。
// 原始列表不可变，因此在注册表加载时构建一次即可，之后只读。
type CategoryMaps struct {
	origin *LabelEncoder[string]
	month  *LabelEncoder[int]
	kid    *LabelEncoder[string]
}

// BuildCategoryMaps 从原始列表构建编码表。月份 token 解析失败时返回 CONFIGURATION 错误。
func BuildCategoryMaps(raw RawMaps) (*CategoryMaps, error) {
	months := make([]int, 0, len(raw.Months))
	for _, tok := range raw.Months {
		m, err := ParseMonthToken(tok)
		if err != nil {
			return nil, err
		}
		months = append(months, m)
	}
	return &CategoryMaps{
		origin: newLabelEncoder("custom_origin_map", raw.Origins),
		month:  newLabelEncoder("month_map", months),
		kid:    newLabelEncoder("kid_map", raw.Kids),
	}, nil
}

// ParseMonthToken 解析 "<anything>/<month>" 形式的 token。
func ParseMonthToken(tok string) (int, error) {
	i := strings.LastIndexByte(tok, '/')
	if i < 0 {
		return 0, core.ConfigurationError(core.ModuleFeature, "malformed month token %q: missing '/'", tok)
	}
	m, err := strconv.Atoi(strings.TrimSpace(tok[i+1:]))
	if err != nil {
		return 0, core.WrapDomainError(core.ModuleFeature, core.ErrorCodeConfiguration,
			"malformed month token "+strconv.Quote(tok), err)
	}
	return m, nil
}

func (m *CategoryMaps) Origin(origin string) (int, error) { return m.origin.Encode(origin) }

func (m *CategoryMaps) Month(month int) (int, error) { return m.month.Encode(month) }

func (m *CategoryMaps) Kid(token string) (int, error) { return m.kid.Encode(token) }

// KidToken 返回预订对应的儿童标记。
func KidToken(bc *core.BookingContext) string {
	if bc.HasKids() {
		return WithKid
	}
	return WithoutKid
}
