package model

import (
	"errors"
	"fmt"
)

var (
	errEmptyDistribution = errors.New("empty probability distribution")
	errEmptyModel        = errors.New("model has no coefficients")
)

type probabilityRangeError struct{ p float64 }

func (e *probabilityRangeError) Error() string {
	return fmt.Sprintf("class 0 probability %v outside [0, 1]", e.p)
}

// DimensionError 表示输入向量长度与模型期望不符。
type DimensionError struct {
	Want, Got int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("vector dimension mismatch: want %d, got %d", e.Want, e.Got)
}
