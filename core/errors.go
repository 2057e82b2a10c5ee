package core

import (
	"errors"
	"fmt"
)

// DomainError 是领域层的统一错误类型。
//
// 分类（Code）：
//   - CONFIGURATION：注册表条目引用了未定义的特征，或取值不在条目自带的映射表里
//   - VALIDATION：调用方传入的 origin / month 等超出枚举范围
//   - MODEL_INFERENCE：模型对合法向量推理失败
//   - NOT_FOUND / NOT_SUPPORTED / UNAVAILABLE：存储等基础设施错误
//
// 核心不吞任何错误，全部以 DomainError（可能被 %w 包装）返回给调用方。
type DomainError struct {
	Code    string // 错误代码（如 "CONFIGURATION", "VALIDATION"）
	Message string // 错误消息
	Module  string // 模块名称（如 "feature", "rank", "store"）
	Err     error  // 原始错误（可选）
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

// GetDomainError 沿错误链查找 DomainError，找不到返回 nil。
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// IsDomainError 检查错误链中是否包含 DomainError
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// WrapDomainError 创建带原始错误的领域错误
func WrapDomainError(module, code, message string, err error) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// 错误代码常量
const (
	ErrorCodeConfiguration  = "CONFIGURATION"   // 注册表/模型配置错误
	ErrorCodeValidation     = "VALIDATION"      // 调用方输入不合法
	ErrorCodeModelInference = "MODEL_INFERENCE" // 模型推理失败
	ErrorCodeNotFound       = "NOT_FOUND"       // 资源不存在
	ErrorCodeNotSupported   = "NOT_SUPPORTED"   // 操作不支持
	ErrorCodeUnavailable    = "UNAVAILABLE"     // 服务不可用
)

// 模块名称常量
const (
	ModuleStore    = "store"
	ModuleFeature  = "feature"
	ModuleModel    = "model"
	ModuleRegistry = "registry"
	ModuleRank     = "rank"
	ModuleService  = "service"
)

// ConfigurationError 构造配置错误。
func ConfigurationError(module string, format string, args ...any) *DomainError {
	return NewDomainError(module, ErrorCodeConfiguration, fmt.Sprintf(format, args...))
}

// ValidationError 构造输入校验错误。
func ValidationError(module string, format string, args ...any) *DomainError {
	return NewDomainError(module, ErrorCodeValidation, fmt.Sprintf(format, args...))
}

// ModelInferenceError 构造模型推理错误，err 为模型返回的原始错误。
func ModelInferenceError(model string, err error) *DomainError {
	return WrapDomainError(ModuleModel, ErrorCodeModelInference, "model "+model+" inference failed", err)
}

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsConfigurationError 检查错误是否为 CONFIGURATION
func IsConfigurationError(err error) bool { return hasCode(err, ErrorCodeConfiguration) }

// IsValidationError 检查错误是否为 VALIDATION
func IsValidationError(err error) bool { return hasCode(err, ErrorCodeValidation) }

// IsModelInferenceError 检查错误是否为 MODEL_INFERENCE
func IsModelInferenceError(err error) bool { return hasCode(err, ErrorCodeModelInference) }

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool { return hasCode(err, ErrorCodeNotFound) }

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool { return hasCode(err, ErrorCodeNotSupported) }
