package charges

import (
	"strconv"
	"strings"
)

// ParseCharge converts a currency-formatted string like "$1,200.50" to its
// numeric amount. Empty or malformed input yields 0, never an error: the
// upstream extraction model cannot be trusted to always produce well-formed
// numbers, and the savings calculation depends on zero-as-default rather
// than skipping the item.
func ParseCharge(raw string) float64 {
	if raw == "" {
		return 0
	}
	cleaned := strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(raw))
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return value
}
