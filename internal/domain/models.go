package domain

// PriceVariant is one published rate for a charge entry. Price fields are
// pointers: an absent price is excluded from minimum-price math, never
// treated as zero.
type PriceVariant struct {
	GrossCharge    *float64 `json:"gross_charge,omitempty"`
	DiscountedCash *float64 `json:"discounted_cash,omitempty"`
	Setting        Setting  `json:"setting"`
	BillingClass   string   `json:"billing_class"`
	Modifiers      []string `json:"modifiers,omitempty"`
}

// ChargeEntry is one indexed disclosure record, keyed by HCPCS code.
// Entries are built once at startup and never mutated afterwards.
type ChargeEntry struct {
	Code          string         `json:"code"`
	Description   string         `json:"description"`
	RevenueCode   string         `json:"revenue_code,omitempty"`
	PriceVariants []PriceVariant `json:"price_variants"`
}

// LineItem is a single billed line extracted from a patient's bill.
// Charge is the raw string as it appeared on the bill (e.g. "$1,200.50").
type LineItem struct {
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	Charge      string `json:"charge,omitempty"`
	Units       string `json:"units,omitempty"`
	RevenueCode string `json:"revenue_code,omitempty"`
}

// LookupResult is the outcome of an exact code lookup. A missing code is a
// normal result (Found=false), not an error.
type LookupResult struct {
	Found            bool           `json:"found"`
	Code             string         `json:"code"`
	Description      string         `json:"description,omitempty"`
	RevenueCode      string         `json:"revenue_code,omitempty"`
	MatchingVariants []PriceVariant `json:"matching_variants,omitempty"`
	TotalVariants    int            `json:"total_variants"`
	Message          string         `json:"message,omitempty"`
}

// AlternativeCandidate is a cheaper procedure code whose description overlaps
// the queried one.
type AlternativeCandidate struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	MinPrice    float64 `json:"min_price"`
	MatchScore  int     `json:"match_score"`
	RevenueCode string  `json:"revenue_code,omitempty"`
}

// CodeAnalysis is the validation verdict for one physical line-item
// occurrence on the bill. Repeated codes keep one entry per occurrence.
type CodeAnalysis struct {
	Code         string     `json:"code"`
	Description  string     `json:"description,omitempty"`
	RevenueCode  string     `json:"revenue_code,omitempty"`
	Status       CodeStatus `json:"status"`
	Reasoning    string     `json:"reasoning"`
	BilledCharge float64    `json:"billed_charge"`
}

// AnalyzeResult is the full analysis of one bill.
type AnalyzeResult struct {
	Codes            []CodeAnalysis `json:"codes"`
	Savings          float64        `json:"savings"`
	AppealDraft      string         `json:"appeal_draft"`
	OverallReasoning string         `json:"overall_reasoning"`
}
