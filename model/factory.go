package model

import (
	"path/filepath"
	"time"

	"github.com/rushteam/bundlerec/core"
)

// 模型类型
const (
	TypeLogistic = "logistic"
	TypeRPC      = "rpc"
	TypeStatic   = "static"
)

// Spec 是注册表文档里一个模型的声明。不同类型使用不同字段：
//
//	logistic: path 或内联 coef/intercept
//	rpc:      endpoint, timeout（秒）, breaker
//	static:   distribution
type Spec struct {
	Type         string      `yaml:"type" json:"type"`
	Name         string      `yaml:"name" json:"name"`
	Path         string      `yaml:"path" json:"path"`
	Coef         [][]float64 `yaml:"coef" json:"coef"`
	Intercept    []float64   `yaml:"intercept" json:"intercept"`
	Endpoint     string      `yaml:"endpoint" json:"endpoint"`
	Timeout      int         `yaml:"timeout" json:"timeout"`
	Breaker      bool        `yaml:"breaker" json:"breaker"`
	Distribution []float64   `yaml:"distribution" json:"distribution"`
}

// FromSpec 根据声明构建模型。相对路径以 baseDir 为基准。
func FromSpec(spec Spec, baseDir string) (ProbaModel, error) {
	name := spec.Name
	if name == "" {
		name = spec.Type
	}
	switch spec.Type {
	case TypeLogistic:
		if spec.Path != "" {
			path := spec.Path
			if !filepath.IsAbs(path) && baseDir != "" {
				path = filepath.Join(baseDir, path)
			}
			m, err := LoadLogisticModel(name, path)
			if err != nil {
				return nil, core.WrapDomainError(core.ModuleModel, core.ErrorCodeConfiguration, "load logistic model "+path, err)
			}
			return m, nil
		}
		if len(spec.Coef) == 0 {
			return nil, core.ConfigurationError(core.ModuleModel, "logistic model %s: path or coef required", name)
		}
		return NewLogisticModel(name, spec.Coef, spec.Intercept), nil

	case TypeRPC:
		if spec.Endpoint == "" {
			return nil, core.ConfigurationError(core.ModuleModel, "rpc model %s: endpoint not found", name)
		}
		var m ProbaModel = NewRPCModel(name, spec.Endpoint, time.Duration(spec.Timeout)*time.Second)
		if spec.Breaker {
			m = NewBreakerModel(m, BreakerSettings{})
		}
		return m, nil

	case TypeStatic:
		if len(spec.Distribution) == 0 {
			return nil, core.ConfigurationError(core.ModuleModel, "static model %s: distribution required", name)
		}
		return NewStaticModel(name, spec.Distribution...), nil

	default:
		return nil, core.ConfigurationError(core.ModuleModel, "unknown model type: %q", spec.Type)
	}
}
