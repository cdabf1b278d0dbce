package port

import (
	"context"

	"billaudit/internal/domain"
)

// EnrichedLineItem is one extracted line item bundled with the pricing
// evidence gathered for it, handed to the advisor for validation.
type EnrichedLineItem struct {
	Code                string                        `json:"code"`
	Description         string                        `json:"description"`
	BilledCharge        float64                       `json:"billed_charge"`
	Units               string                        `json:"units"`
	RevenueCode         string                        `json:"revenue_code"`
	DuplicateCount      int                           `json:"duplicate_count,omitempty"`
	StandardPricing     domain.LookupResult           `json:"standard_pricing"`
	CheaperAlternatives []domain.AlternativeCandidate `json:"cheaper_alternatives,omitempty"`
}

// CodeValidation is the advisor's verdict for a single code.
type CodeValidation struct {
	Code      string            `json:"code"`
	Status    domain.CodeStatus `json:"status"`
	Reasoning string            `json:"reasoning"`
}

// ValidationOutcome is the advisor's full validation response.
type ValidationOutcome struct {
	Validations      []CodeValidation `json:"validations"`
	OverallReasoning string           `json:"overall_reasoning"`
}

// DisputedItem is one disputed line-item instance handed to the advisor for
// appeal drafting.
type DisputedItem struct {
	Code         string  `json:"code"`
	Description  string  `json:"description"`
	BilledCharge float64 `json:"charge"`
	Reasoning    string  `json:"reasoning"`
}

// BillAdvisor abstracts the external language-model collaborator: one method
// per prompt shape, each a single blocking round trip returning a typed
// result or an error. Retries, if any, are the caller's concern.
type BillAdvisor interface {
	// ExtractLineItems pulls HCPCS/CPT line items out of raw bill text.
	ExtractLineItems(ctx context.Context, bill, aftercare string) ([]domain.LineItem, error)

	// ValidateCodes audits all enriched line items in one call, returning a
	// per-code verdict and an overall narrative.
	ValidateCodes(ctx context.Context, bill, aftercare string, items []EnrichedLineItem) (*ValidationOutcome, error)

	// DraftAppeal writes an appeal letter covering the disputed instances.
	DraftAppeal(ctx context.Context, bill, aftercare, overallReasoning string, disputed []DisputedItem) (string, error)
}
