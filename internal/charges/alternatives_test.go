package charges

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func altRecord(code, description string, gross *float64) ChargeRecord {
	rec := ChargeRecord{
		Description:     description,
		CodeInformation: []CodeRef{{Code: code, Type: "HCPCS"}},
	}
	if gross != nil {
		rec.StandardCharges = []StandardCharge{
			{GrossCharge: FlexibleFloat{Value: gross}, Setting: "both", BillingClass: "facility"},
		}
	}
	return rec
}

func altIndex(records ...ChargeRecord) *Index {
	return Build(&Dataset{StandardChargeInformation: records}, zerolog.Nop())
}

func TestFindCheaperAlternatives_RequiresTwoKeywordHits(t *testing.T) {
	idx := altIndex(
		altRecord("70551", "magnetic resonance imaging brain without contrast", f64(2000)),
		altRecord("70450", "computed tomography head brain", f64(900)),
		altRecord("71045", "chest radiograph single view", f64(150)),
	)

	// "magnetic" and "brain" both hit 70551; only "brain" hits 70450.
	results := idx.FindCheaperAlternatives("magnetic imaging of the brain", 5000, 5)

	require.Len(t, results, 1)
	assert.Equal(t, "70551", results[0].Code)
	assert.Equal(t, 3, results[0].MatchScore)
}

func TestFindCheaperAlternatives_PriceCeilingIsStrict(t *testing.T) {
	idx := altIndex(
		altRecord("73721", "magnetic resonance imaging knee joint", f64(1800)),
	)

	assert.Empty(t, idx.FindCheaperAlternatives("magnetic resonance imaging knee", 1800, 5))
	assert.Len(t, idx.FindCheaperAlternatives("magnetic resonance imaging knee", 1801, 5), 1)
}

func TestFindCheaperAlternatives_SkipsUnpricedEntries(t *testing.T) {
	idx := altIndex(
		altRecord("73721", "magnetic resonance imaging knee joint", nil),
	)

	assert.Empty(t, idx.FindCheaperAlternatives("magnetic resonance imaging knee", 100000, 5))
}

func TestFindCheaperAlternatives_SkipsNullPricedEntries(t *testing.T) {
	// Disclosure files carry explicit nulls for prices a hospital did not
	// publish. Those must read as absent, not as a zero-dollar candidate
	// that outranks every real one.
	raw := []byte(`{
		"standard_charge_information": [
			{
				"description": "magnetic resonance imaging brain without contrast",
				"code_information": [{"code": "70551", "type": "HCPCS"}],
				"standard_charges": [
					{"gross_charge": null, "setting": "both", "billing_class": "facility"}
				]
			},
			{
				"description": "magnetic resonance imaging brain limited",
				"code_information": [{"code": "70554", "type": "HCPCS"}],
				"standard_charges": [
					{"gross_charge": 1400, "setting": "both", "billing_class": "facility"}
				]
			}
		]
	}`)
	idx := Load(raw, zerolog.Nop())
	require.Equal(t, 2, idx.Len())

	results := idx.FindCheaperAlternatives("magnetic resonance imaging brain", 5000, 5)

	require.Len(t, results, 1)
	assert.Equal(t, "70554", results[0].Code)
	assert.Equal(t, 1400.0, results[0].MinPrice)
}

func TestFindCheaperAlternatives_SortsByMatchThenPrice(t *testing.T) {
	idx := altIndex(
		altRecord("A1", "surgical repair shoulder tendon", f64(4000)),       // 3 matches, priciest
		altRecord("A2", "surgical repair shoulder rotator cuff", f64(3000)), // 4 matches
		altRecord("A3", "surgical repair shoulder arthroscopy", f64(2500)),  // 3 matches, cheapest
		altRecord("A4", "surgical repair shoulder", f64(3500)),              // 3 matches, middle price
	)

	results := idx.FindCheaperAlternatives("surgical repair rotator shoulder", 10000, 5)

	require.Len(t, results, 4)
	// A2 scores 4 (all keywords), then the 3-match entries ordered by price.
	assert.Equal(t, []string{"A2", "A3", "A4", "A1"}, []string{
		results[0].Code, results[1].Code, results[2].Code, results[3].Code,
	})
}

func TestFindCheaperAlternatives_TruncatesToLimit(t *testing.T) {
	records := []ChargeRecord{
		altRecord("B1", "diagnostic ultrasound abdomen complete", f64(500)),
		altRecord("B2", "diagnostic ultrasound abdomen limited", f64(400)),
		altRecord("B3", "diagnostic ultrasound abdomen followup", f64(300)),
	}
	idx := altIndex(records...)

	results := idx.FindCheaperAlternatives("diagnostic ultrasound abdomen", 1000, 2)
	assert.Len(t, results, 2)
}

func TestFindCheaperAlternatives_EmptyDescription(t *testing.T) {
	idx := altIndex(altRecord("70551", "magnetic resonance imaging brain", f64(2000)))

	assert.Empty(t, idx.FindCheaperAlternatives("", 5000, 5))
	// Tokens that are all short or stop words leave nothing to match on.
	assert.Empty(t, idx.FindCheaperAlternatives("of to a the", 5000, 5))
}

func TestExtractKeywords(t *testing.T) {
	keywords := extractKeywords("MRI of the Brain with Contrast")
	// "MRI" is dropped (len <= 3), "of"/"the"/"with" are stop words.
	assert.Equal(t, []string{"brain", "contrast"}, keywords)
}
