package advisor

import (
	"encoding/json"
	"fmt"

	"billaudit/internal/domain"
	"billaudit/internal/port"
)

// DecodeExtraction parses the model's extraction output into line items.
func DecodeExtraction(text string) ([]domain.LineItem, error) {
	var payload struct {
		Codes []domain.LineItem `json:"codes"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("parsing extraction output: %w (raw: %s)", err, truncate(text, 500))
	}
	return payload.Codes, nil
}

// DecodeValidation parses the model's validation output.
func DecodeValidation(text string) (*port.ValidationOutcome, error) {
	var payload port.ValidationOutcome
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("parsing validation output: %w (raw: %s)", err, truncate(text, 500))
	}
	if len(payload.Validations) == 0 {
		return nil, fmt.Errorf("validation output carried no verdicts (raw: %s)", truncate(text, 500))
	}
	return &payload, nil
}

// DecodeAppeal parses the model's appeal-drafting output.
func DecodeAppeal(text string) (string, error) {
	var payload struct {
		AppealDraft string `json:"appeal_draft"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return "", fmt.Errorf("parsing appeal output: %w (raw: %s)", err, truncate(text, 500))
	}
	if payload.AppealDraft == "" {
		return "", fmt.Errorf("appeal output carried no letter text")
	}
	return payload.AppealDraft, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
