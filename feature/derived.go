package feature

// InvalidBucket 是分桶的哨兵值，与所有合法桶（1, 2, 3）都不同。
const InvalidBucket = -1

// GroupSizeBucket 按同行人数（成人 + 儿童）分桶：1 人、2 人、3 人及以上。
func GroupSizeBucket(adults, children int) int {
	size := adults + children
	switch {
	case size < 1:
		return InvalidBucket
	case size == 1:
		return 1
	case size == 2:
		return 2
	default:
		return 3
	}
}

// LengthOfStayBucket 按入住晚数分桶：1-2 晚、3-4 晚、5 晚及以上。
func LengthOfStayBucket(nights int) int {
	switch {
	case nights < 1:
		return InvalidBucket
	case nights <= 2:
		return 1
	case nights <= 4:
		return 2
	default:
		return 3
	}
}
