package queries

import "math"

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

func ValidateLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

func ValidatePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// PageCount is zero for an empty result.
func PageCount(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	l := int64(limit)
	return int((total + l - 1) / l)
}

// Offset of the first row of page. It saturates at math.MaxInt64 instead of wrapping,
// so an absurd page number lands past the end rather than at a negative offset.
func Offset(page, limit int) int64 {
	if page <= 1 || limit <= 0 {
		return 0
	}
	p, l := int64(page-1), int64(limit)
	if p > math.MaxInt64/l {
		return math.MaxInt64
	}
	return p * l
}

// Pageable reports whether offset addresses a row the store can reach.
func Pageable(offset, total int64) bool {
	return offset < total && offset <= math.MaxInt32
}
