package feature

import (
	"fmt"

	"github.com/rushteam/bundlerec/core"
)

// 特征 token，与模型训练时的列名一致。
const (
	TokenAdults          = "NUMBEROFADULT"
	TokenChildren        = "NUMBEROFCHILD"
	TokenInfants         = "NUMBEROFINFANT"
	TokenNights          = "NUMNIGHTS"
	TokenArrivalMonth    = "ARRIVALMONTH"
	TokenOrigin          = "CUSTOMER_ORIGIN"
	TokenHoliday         = "HOLIDAY"
	TokenWeekend         = "WEEKEND"
	TokenActualGroupSize = "ACTUAL_GROUP_SIZE"
	TokenGroupSize       = "GROUP_SIZE"
	TokenLOSGroup        = "LOS_GROUP"
	TokenKid             = "KID"
)

type extractFunc func(bc *core.BookingContext, maps *CategoryMaps) (float64, error)

func intValue(f func(bc *core.BookingContext) int) extractFunc {
	return func(bc *core.BookingContext, _ *CategoryMaps) (float64, error) {
		return float64(f(bc)), nil
	}
}

func boolValue(f func(bc *core.BookingContext) bool) extractFunc {
	return func(bc *core.BookingContext, _ *CategoryMaps) (float64, error) {
		if f(bc) {
			return 1, nil
		}
		return 0, nil
	}
}

func lookup(f func(bc *core.BookingContext, maps *CategoryMaps) (int, error)) extractFunc {
	return func(bc *core.BookingContext, maps *CategoryMaps) (float64, error) {
		if maps == nil {
			return 0, core.ConfigurationError(core.ModuleFeature, "category maps not built")
		}
		idx, err := f(bc, maps)
		return float64(idx), err
	}
}

var extractors = map[string]extractFunc{
	TokenAdults:          intValue(func(bc *core.BookingContext) int { return bc.Adults }),
	TokenChildren:        intValue(func(bc *core.BookingContext) int { return bc.Children }),
	TokenInfants:         intValue(func(bc *core.BookingContext) int { return bc.Infants }),
	TokenNights:          intValue(func(bc *core.BookingContext) int { return bc.Nights }),
	TokenActualGroupSize: intValue(func(bc *core.BookingContext) int { return bc.GroupSize() }),
	TokenGroupSize: intValue(func(bc *core.BookingContext) int {
		return GroupSizeBucket(bc.Adults, bc.Children)
	}),
	TokenLOSGroup: intValue(func(bc *core.BookingContext) int { return LengthOfStayBucket(bc.Nights) }),
	TokenHoliday:  boolValue(func(bc *core.BookingContext) bool { return bc.Holiday }),
	TokenWeekend:  boolValue(func(bc *core.BookingContext) bool { return bc.Weekend }),
	TokenArrivalMonth: lookup(func(bc *core.BookingContext, maps *CategoryMaps) (int, error) {
		return maps.Month(bc.Month)
	}),
	TokenOrigin: lookup(func(bc *core.BookingContext, maps *CategoryMaps) (int, error) {
		return maps.Origin(bc.Origin)
	}),
	TokenKid: lookup(func(bc *core.BookingContext, maps *CategoryMaps) (int, error) {
		return maps.Kid(KidToken(bc))
	}),
}

// KnownTokens 返回所有可识别的特征 token。
func KnownTokens() []string {
	return []string{
		TokenAdults, TokenChildren, TokenInfants, TokenNights,
		TokenArrivalMonth, TokenOrigin, TokenHoliday, TokenWeekend,
		TokenActualGroupSize, TokenGroupSize, TokenLOSGroup, TokenKid,
	}
}

// ValidateFeatures 检查特征列表里的每个 token 都有定义的取值方式。
func ValidateFeatures(features []string) error {
	for i, tok := range features {
		if _, ok := extractors[tok]; !ok {
			return core.ConfigurationError(core.ModuleFeature, "unknown feature token %q at position %d", tok, i)
		}
	}
	return nil
}

// Assemble 按 features 的顺序生成模型输入向量，vector[i] 对应 features[i]。
//
// 未识别的 token 返回 CONFIGURATION 错误，不跳过，len(vector) 恒等于 len(features)。
func Assemble(features []string, bc *core.BookingContext, maps *CategoryMaps) ([]float64, error) {
	vector := make([]float64, len(features))
	for i, tok := range features {
		extract, ok := extractors[tok]
		if !ok {
			return nil, core.ConfigurationError(core.ModuleFeature, "unknown feature token %q at position %d", tok, i)
		}
		v, err := extract(bc, maps)
		if err != nil {
			return nil, fmt.Errorf("feature %s: %w", tok, err)
		}
		vector[i] = v
	}
	return vector, nil
}
