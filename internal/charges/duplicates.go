package charges

import "billaudit/internal/domain"

// DetectDuplicates counts repeated codes across extracted line items and
// returns only the codes that occur more than once.
func DetectDuplicates(items []domain.LineItem) map[string]int {
	counts := make(map[string]int, len(items))
	for _, item := range items {
		counts[item.Code]++
	}
	duplicates := make(map[string]int)
	for code, count := range counts {
		if count > 1 {
			duplicates[code] = count
		}
	}
	return duplicates
}
