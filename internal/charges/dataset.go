package charges

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Dataset models the CMS hospital price-transparency JSON disclosure format.
type Dataset struct {
	HospitalName              string         `json:"hospital_name,omitempty"`
	StandardChargeInformation []ChargeRecord `json:"standard_charge_information"`
}

// ChargeRecord is one disclosure record: a free-text description, its typed
// codes, and its published rates.
type ChargeRecord struct {
	Description     string           `json:"description"`
	CodeInformation []CodeRef        `json:"code_information"`
	StandardCharges []StandardCharge `json:"standard_charges"`
}

// CodeRef is a typed code attached to a record. Types include "HCPCS" and
// "RC" (revenue code).
type CodeRef struct {
	Code string `json:"code"`
	Type string `json:"type"`
}

// StandardCharge is one published rate record.
type StandardCharge struct {
	GrossCharge    FlexibleFloat `json:"gross_charge"`
	DiscountedCash FlexibleFloat `json:"discounted_cash"`
	Setting        string        `json:"setting"`
	BillingClass   string        `json:"billing_class"`
	Modifiers      []string      `json:"modifiers"`
}

// FlexibleFloat handles JSON values that may be a number or a string
// (e.g. "24,945.00"). Hospital disclosure files mix both. Anything without a
// usable numeric value (null, empty string, "N/A") leaves Value nil so it is
// excluded from price math, never counted as zero.
type FlexibleFloat struct {
	Value *float64
}

func (f *FlexibleFloat) UnmarshalJSON(data []byte) error {
	f.Value = nil
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		f.Value = &num
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		cleaned := strings.ReplaceAll(str, ",", "")
		num, err := strconv.ParseFloat(cleaned, 64)
		if err == nil {
			f.Value = &num
		}
		return nil
	}
	return nil
}

// ParseDataset decodes a raw disclosure document.
func ParseDataset(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("decoding disclosure dataset: %w", err)
	}
	return &ds, nil
}
