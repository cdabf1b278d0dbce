package advisor

import (
	"encoding/json"
	"fmt"

	"billaudit/internal/port"
)

// ExtractionSystemPrompt instructs the model to pull HCPCS/CPT line items out
// of raw bill text as structured JSON.
const ExtractionSystemPrompt = `You are a medical coding assistant. Extract HCPCS/CPT codes from the provided bill text. HCPCS codes include CPT codes (numeric codes for procedures) and other codes for supplies, drugs, and services.

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation. The JSON object must have this shape:
{
  "codes": [
    {
      "code": "",
      "description": "",
      "charge": "",
      "units": "",
      "revenue_code": ""
    }
  ]
}

Keep one entry per billed line, in bill order, even when the same code appears more than once. Use empty strings for information missing from the bill.`

// ValidationSystemPrompt instructs the model to audit each code against its
// pre-fetched pricing evidence in a single pass.
const ValidationSystemPrompt = `You are a medical billing auditor analyzing HCPCS/CPT codes. Each code includes:
1. Billed charge from the patient's bill
2. Standard pricing from the hospital's price-transparency disclosure (if available)
3. Cheaper alternative codes with similar descriptions (if found)
4. A duplicate count when the code appears multiple times on the bill

Your task:
- Mark codes as "disputed" if:
  * Billed charge significantly exceeds standard charges (upcoding)
  * A cheaper alternative with similar description exists (wrong code used)
  * The code is duplicated inappropriately
  * Medical necessity is questionable based on the after-care summary
- Mark codes as "accepted" if they appear valid
- Provide specific, factual reasoning citing prices and alternatives

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation. The JSON object must have this shape:
{
  "validations": [
    {"code": "", "status": "accepted or disputed", "reasoning": ""}
  ],
  "overall_reasoning": ""
}`

// AppealSystemPrompt instructs the model to draft a formal appeal letter for
// the disputed charges.
const AppealSystemPrompt = `You are a professional medical billing advocate drafting an appeal letter.

Draft a formal, professional appeal letter that:
- Is addressed to the billing department
- Clearly identifies the patient and bill details from the provided bill
- Lists each disputed code with specific, factual reasoning
- Requests formal review and adjustment of the disputed charges
- Maintains a professional, respectful, yet firm tone
- Cites medical billing standards and regulations where appropriate
- Includes a clear call to action and contact information placeholder

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation. The JSON object must have this shape:
{"appeal_draft": ""}`

// ExtractionUserContent assembles the user message for line-item extraction.
func ExtractionUserContent(bill, aftercare string) string {
	if aftercare == "" {
		aftercare = "None provided"
	}
	return fmt.Sprintf("Bill text:\n%s\n\nAfter-care summary: %s", bill, aftercare)
}

// ValidationUserContent assembles the user message for code validation,
// embedding the enriched line items as JSON.
func ValidationUserContent(bill, aftercare string, items []port.EnrichedLineItem) (string, error) {
	if aftercare == "" {
		aftercare = "None provided"
	}
	enriched, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling enriched line items: %w", err)
	}
	return fmt.Sprintf(
		"Bill text:\n%s\n\nAfter-care summary: %s\n\nCodes with pricing data:\n%s\n\nValidate each code and explain your reasoning.",
		bill, aftercare, enriched,
	), nil
}

// AppealUserContent assembles the user message for appeal drafting.
func AppealUserContent(bill, aftercare, overallReasoning string, disputed []port.DisputedItem) (string, error) {
	if aftercare == "" {
		aftercare = "None provided"
	}
	var total float64
	for _, d := range disputed {
		total += d.BilledCharge
	}
	items, err := json.MarshalIndent(disputed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling disputed items: %w", err)
	}
	return fmt.Sprintf(
		"Bill text:\n%s\n\nAfter-care summary: %s\n\nOverall analysis: %s\n\nDisputed codes (%d total, $%.2f):\n%s\n\nDraft a complete appeal letter ready to send to the billing department.",
		bill, aftercare, overallReasoning, len(disputed), total, items,
	), nil
}
