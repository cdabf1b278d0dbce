package charges

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCharge(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"plain", "1200", 1200},
		{"dollar sign", "$450.75", 450.75},
		{"thousands separators", "$1,200.50", 1200.50},
		{"surrounding whitespace", "  $2,000  ", 2000},
		{"empty", "", 0},
		{"garbage", "garbage", 0},
		{"partial number", "$12.3.4", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCharge(tt.raw))
		})
	}
}
