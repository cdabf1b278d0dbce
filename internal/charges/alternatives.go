package charges

import (
	"math"
	"sort"
	"strings"

	"billaudit/internal/domain"
)

// DefaultAlternativeLimit caps how many cheaper alternatives a search returns.
const DefaultAlternativeLimit = 5

// stopWords are too common to count as meaningful description keywords.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "for": {},
	"with": {}, "of": {}, "in": {}, "to": {}, "from": {},
}

// FindCheaperAlternatives scans the whole index for codes whose descriptions
// overlap the given one and whose cheapest gross charge is strictly below
// priceCeiling. Results are ordered by keyword overlap (descending) then
// minimum price (ascending) and truncated to limit.
//
// The scan is O(entries x keywords) per call. The index is bounded by one
// hospital's published rate list, and this runs once per disputed line item,
// so a linear pass is fine.
func (idx *Index) FindCheaperAlternatives(description string, priceCeiling float64, limit int) []domain.AlternativeCandidate {
	if limit <= 0 {
		limit = DefaultAlternativeLimit
	}
	keywords := extractKeywords(description)
	if len(keywords) == 0 {
		return nil
	}

	var candidates []domain.AlternativeCandidate
	for _, code := range idx.order {
		entry := idx.entries[code]
		entryDesc := strings.ToLower(entry.Description)

		matches := 0
		for _, kw := range keywords {
			if strings.Contains(entryDesc, kw) {
				matches++
			}
		}
		// Two independent keyword hits minimum, to avoid spurious
		// single-word coincidences.
		if matches < 2 {
			continue
		}

		minPrice := minGrossCharge(entry.PriceVariants)
		if minPrice >= priceCeiling {
			continue
		}

		candidates = append(candidates, domain.AlternativeCandidate{
			Code:        entry.Code,
			Description: entry.Description,
			MinPrice:    minPrice,
			MatchScore:  matches,
			RevenueCode: entry.RevenueCode,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].MatchScore != candidates[j].MatchScore {
			return candidates[i].MatchScore > candidates[j].MatchScore
		}
		return candidates[i].MinPrice < candidates[j].MinPrice
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// extractKeywords tokenizes a description by whitespace and keeps lower-cased
// tokens longer than 3 characters that are not stop words.
func extractKeywords(description string) []string {
	var keywords []string
	for _, word := range strings.Fields(description) {
		if len(word) <= 3 {
			continue
		}
		lower := strings.ToLower(word)
		if _, ok := stopWords[lower]; ok {
			continue
		}
		keywords = append(keywords, lower)
	}
	return keywords
}

// minGrossCharge returns the smallest present gross charge, or +Inf when no
// variant carries one. Entries priced at +Inf never pass a finite ceiling.
func minGrossCharge(variants []domain.PriceVariant) float64 {
	minPrice := math.Inf(1)
	for _, v := range variants {
		if v.GrossCharge != nil && *v.GrossCharge < minPrice {
			minPrice = *v.GrossCharge
		}
	}
	return minPrice
}
