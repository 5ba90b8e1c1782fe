package drip

import "math"

// CompletionPercent is the member's course completion as a whole number
// 0-100. Only published lessons count; a course with none published is 0%,
// never a division error.
func CompletionPercent(completed, totalPublished int) int {
	if totalPublished <= 0 {
		return 0
	}
	pct := int(math.Round(float64(completed) / float64(totalPublished) * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
