package core

import (
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
)

// 客源地枚举。
const (
	OriginNorth   = "North"
	OriginSouth   = "South"
	OriginMiddle  = "Middle"
	OriginOversea = "Oversea"
)

// Origins 返回全部合法客源地，顺序固定。
func Origins() []string {
	return []string{OriginNorth, OriginSouth, OriginMiddle, OriginOversea}
}

// BookingContext 承载一次请求的预订属性，贯穿整个 Pipeline 透传，核心只读不写。
//
// Hotel 不做校验：不存在的酒店只会匹配到 0 个注册条目。
// Nights 也不强制 >= 1，非法晚数由 LOS_GROUP 的哨兵值表达。
type BookingContext struct {
	Hotel    string `json:"hotel"`
	Adults   int    `json:"adults" validate:"min=0"`
	Children int    `json:"children" validate:"min=0"`
	Infants  int    `json:"infants" validate:"min=0"`
	Month    int    `json:"month" validate:"min=1,max=12"`
	Nights   int    `json:"nights"`
	Weekend  bool   `json:"weekend"`
	Holiday  bool   `json:"holiday"`
	Origin   string `json:"origin" validate:"oneof=North South Middle Oversea"`
}

// GroupSize 返回实际同行人数（成人 + 儿童，不含婴儿）。
func (bc *BookingContext) GroupSize() int {
	return bc.Adults + bc.Children
}

// HasKids 是否携带儿童或婴儿。
func (bc *BookingContext) HasKids() bool {
	return bc.Children+bc.Infants > 0
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate 校验调用方输入，失败返回 VALIDATION 错误，不产生部分结果。
func (bc *BookingContext) Validate() error {
	err := getValidator().Struct(bc)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return ValidationError(ModuleService, "invalid booking context: field %s=%v fails %s", fe.Field(), fe.Value(), fe.Tag())
	}
	return WrapDomainError(ModuleService, ErrorCodeValidation, "invalid booking context", err)
}
