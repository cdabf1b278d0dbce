package csvexport_test

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billaudit/internal/csvexport"
	"billaudit/internal/domain"
)

func TestWriter_ExportsAnalysisRows(t *testing.T) {
	result := &domain.AnalyzeResult{
		Codes: []domain.CodeAnalysis{
			{
				Code:         "70553",
				Description:  "MRI Brain with Contrast",
				RevenueCode:  "0610",
				Status:       domain.StatusDisputed,
				Reasoning:    "billed well above standard charge",
				BilledCharge: 4800,
			},
			{
				Code:         "99213",
				Description:  "Office Visit, \"Established\"",
				Status:       domain.StatusAccepted,
				Reasoning:    "matches disclosed rate",
				BilledCharge: 150.5,
			},
		},
	}

	var buf bytes.Buffer
	w := csvexport.NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteAnalysis(result))
	w.Flush()
	require.NoError(t, w.Error())

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Code", "Description", "Revenue Code", "Status", "Billed Charge", "Reasoning"}, rows[0])
	assert.Equal(t, []string{"70553", "MRI Brain with Contrast", "0610", "disputed", "4800.00", "billed well above standard charge"}, rows[1])
	// Quoted descriptions survive the round trip, amounts keep two decimals.
	assert.Equal(t, `Office Visit, "Established"`, rows[2][1])
	assert.Equal(t, "150.50", rows[2][4])
}

func TestWriter_EmptyAnalysisWritesHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	w := csvexport.NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteAnalysis(&domain.AnalyzeResult{}))
	w.Flush()

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
