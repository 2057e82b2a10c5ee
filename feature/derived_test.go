package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupSizeBucket(t *testing.T) {
	tests := []struct {
		adults, children int
		want             int
	}{
		{0, 0, InvalidBucket},
		{1, 0, 1},
		{0, 1, 1},
		{2, 0, 2},
		{1, 1, 2},
		{2, 2, 3},
		{7, 0, 3},
		{-1, 0, InvalidBucket},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, GroupSizeBucket(tt.adults, tt.children), "adults=%d children=%d", tt.adults, tt.children)
	}
}

func TestLengthOfStayBucket(t *testing.T) {
	tests := []struct {
		nights int
		want   int
	}{
		{-3, InvalidBucket},
		{0, InvalidBucket},
		{1, 1},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
		{30, 3},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, LengthOfStayBucket(tt.nights), "nights=%d", tt.nights)
	}
}

func TestInvalidBucketDistinct(t *testing.T) {
	for _, b := range []int{1, 2, 3} {
		assert.NotEqual(t, b, InvalidBucket)
	}
}
