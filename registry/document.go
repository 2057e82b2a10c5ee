package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/rushteam/bundlerec/feature"
	"github.com/rushteam/bundlerec/model"
)

// 文档格式
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Document 是注册表的外部加载格式（YAML / JSON）。
//
//	entries:
//	  - hotel_name: Vinpearl Resort Nha Trang
//	    bundle: [Spa, Buffet dinner]
//	    features: [NUMBEROFADULT, ARRIVALMONTH, KID]
//	    maps:
//	      custom_origin_map: [North, South, Middle, Oversea]
//	      month_map: ["2023/1", "2023/2"]
//	      kid_map: [with-kid, without-kid]
//	    model: {type: logistic, path: models/spa.json}
type Document struct {
	Entries []EntryDocument `yaml:"entries" json:"entries"`
}

// EntryDocument 是文档中的一个条目。
type EntryDocument struct {
	Hotel    string          `yaml:"hotel_name" json:"hotel_name"`
	Bundle   BundleItems     `yaml:"bundle" json:"bundle"`
	Features []string        `yaml:"features" json:"features"`
	Maps     feature.RawMaps `yaml:"maps" json:"maps"`
	Model    model.Spec      `yaml:"model" json:"model"`
}

// BundleItems 接受字符串列表，或以换行分隔的单个字符串（训练导出的原始格式）。
// 拆分后保留原顺序与重复项。
type BundleItems []string

func splitBundle(s string) BundleItems {
	if s == "" {
		return BundleItems{}
	}
	return BundleItems(strings.Split(s, "\n"))
}

func (b *BundleItems) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*b = splitBundle(value.Value)
		return nil
	}
	var items []string
	if err := value.Decode(&items); err != nil {
		return err
	}
	*b = items
	return nil
}

func (b *BundleItems) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*b = splitBundle(s)
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*b = items
	return nil
}

// ParseDocument 按格式解析注册表文档。
func ParseDocument(data []byte, format string) (*Document, error) {
	var doc Document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown registry format: %q", format)
	}
	return &doc, nil
}

// FormatOf 根据文件扩展名判断格式。
func FormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// Build 构建模型并生成 Registry，模型文件的相对路径以 baseDir 为基准。
func (d *Document) Build(baseDir string) (*Registry, error) {
	entries := make([]Entry, 0, len(d.Entries))
	for i, ed := range d.Entries {
		m, err := model.FromSpec(ed.Model, baseDir)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", i, ed.Hotel, err)
		}
		entries = append(entries, Entry{
			Hotel:    ed.Hotel,
			Bundle:   ed.Bundle,
			Features: ed.Features,
			Maps:     ed.Maps,
			Model:    m,
		})
	}
	return New(entries)
}

// ReadDocument 读取并解析注册表文件，不构建模型。
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return ParseDocument(data, FormatOf(path))
}

// LoadFile 从 YAML / JSON 文件加载注册表。
func LoadFile(path string) (*Registry, error) {
	doc, err := ReadDocument(path)
	if err != nil {
		return nil, err
	}
	return doc.Build(filepath.Dir(path))
}
