package registry

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/rushteam/bundlerec/core"
)

// DefaultStoreKey 是注册表文档在 Store 中的默认 key。
const DefaultStoreKey = "bundlerec:registry"

// StoreSource 从 core.Store（memory / redis）读取注册表文档，
// 便于多个服务实例共享同一份注册表。文档以 JSON 保存。
type StoreSource struct {
	Store core.Store
	Key   string
	// BaseDir 是文档中模型文件相对路径的基准目录
	BaseDir string
}

func (s *StoreSource) key() string {
	if s.Key == "" {
		return DefaultStoreKey
	}
	return s.Key
}

// Publish 把文档写入 Store。
func (s *StoreSource) Publish(ctx context.Context, doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal registry document: %w", err)
	}
	return s.Store.Set(ctx, s.key(), data)
}

// Load 读取文档并构建 Registry。key 不存在时返回 NOT_FOUND。
func (s *StoreSource) Load(ctx context.Context) (*Registry, error) {
	data, err := s.Store.Get(ctx, s.key())
	if err != nil {
		return nil, fmt.Errorf("load registry from %s: %w", s.Store.Name(), err)
	}
	doc, err := ParseDocument(data, FormatJSON)
	if err != nil {
		return nil, err
	}
	return doc.Build(s.BaseDir)
}
