// Package registry 保存按酒店划分的 bundle 模型注册表。
//
// 注册表在进程启动时加载一次，之后只读：Registry 上的所有方法都可以被多个请求并发调用，无需加锁。
package registry

import (
	"fmt"

	"github.com/rushteam/bundlerec/core"
	"github.com/rushteam/bundlerec/feature"
	"github.com/rushteam/bundlerec/model"
)

// Entry 是注册表中的一行：一个 (酒店, bundle) 对及其模型。
type Entry struct {
	Hotel    string
	Bundle   []string
	Features []string
	Maps     feature.RawMaps
	Model    model.ProbaModel

	categories *feature.CategoryMaps
}

// Categories 返回加载时构建好的编码表。
func (e *Entry) Categories() *feature.CategoryMaps {
	return e.categories
}

// Registry 是不可变的模型注册表，保持条目的加载顺序。
type Registry struct {
	entries []*Entry
	byHotel map[string][]*Entry
	hotels  []string
}

// New 校验每个条目并预先构建编码表。任何条目的特征 token 未定义、
// 月份 token 无法解析或缺少模型，都返回 CONFIGURATION 错误。
func New(entries []Entry) (*Registry, error) {
	r := &Registry{
		entries: make([]*Entry, 0, len(entries)),
		byHotel: make(map[string][]*Entry),
	}
	for i := range entries {
		e := entries[i]
		if e.Model == nil {
			return nil, core.ConfigurationError(core.ModuleRegistry, "entry %d (%s): model is required", i, e.Hotel)
		}
		if err := feature.ValidateFeatures(e.Features); err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", i, e.Hotel, err)
		}
		cats, err := feature.BuildCategoryMaps(e.Maps)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", i, e.Hotel, err)
		}
		e.Bundle = append([]string(nil), e.Bundle...)
		e.Features = append([]string(nil), e.Features...)
		e.categories = cats

		if _, ok := r.byHotel[e.Hotel]; !ok {
			r.hotels = append(r.hotels, e.Hotel)
		}
		r.entries = append(r.entries, &e)
		r.byHotel[e.Hotel] = append(r.byHotel[e.Hotel], &e)
	}
	return r, nil
}

// ForHotel 返回该酒店的全部条目（注册表顺序）。未知酒店返回空切片。
// 返回的切片是副本，调整顺序或替换元素不影响注册表；Entry 本身只读。
func (r *Registry) ForHotel(hotel string) []*Entry {
	entries := r.byHotel[hotel]
	out := make([]*Entry, len(entries))
	copy(out, entries)
	return out
}

// Hotels 返回所有酒店名，按首次出现顺序。
func (r *Registry) Hotels() []string {
	out := make([]string, len(r.hotels))
	copy(out, r.hotels)
	return out
}

// Len 返回条目总数。
func (r *Registry) Len() int { return len(r.entries) }
