package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"billaudit/internal/advisor"
	"billaudit/internal/config"
	"billaudit/internal/domain"
	"billaudit/internal/port"
)

const (
	apiURL = "https://api.openai.com/v1/chat/completions"
)

// Advisor implements port.BillAdvisor using the OpenAI Chat Completions API.
type Advisor struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewAdvisor creates an OpenAI-based bill advisor from a provider config.
func NewAdvisor(cfg *config.AdvisorProviderConfig) *Advisor {
	return newAdvisor(cfg, apiURL)
}

// NewAdvisorWithEndpoint creates an advisor pointing at a custom API endpoint (for testing).
func NewAdvisorWithEndpoint(cfg *config.AdvisorProviderConfig, endpoint string) *Advisor {
	return newAdvisor(cfg, endpoint)
}

func newAdvisor(cfg *config.AdvisorProviderConfig, endpoint string) *Advisor {
	model := cfg.DefaultModel
	if model == "" {
		model = "gpt-4o"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Advisor{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (a *Advisor) ExtractLineItems(ctx context.Context, bill, aftercare string) ([]domain.LineItem, error) {
	text, err := a.complete(ctx, advisor.ExtractionSystemPrompt, advisor.ExtractionUserContent(bill, aftercare))
	if err != nil {
		return nil, err
	}
	return advisor.DecodeExtraction(text)
}

func (a *Advisor) ValidateCodes(ctx context.Context, bill, aftercare string, items []port.EnrichedLineItem) (*port.ValidationOutcome, error) {
	user, err := advisor.ValidationUserContent(bill, aftercare, items)
	if err != nil {
		return nil, err
	}
	text, err := a.complete(ctx, advisor.ValidationSystemPrompt, user)
	if err != nil {
		return nil, err
	}
	return advisor.DecodeValidation(text)
}

func (a *Advisor) DraftAppeal(ctx context.Context, bill, aftercare, overallReasoning string, disputed []port.DisputedItem) (string, error) {
	user, err := advisor.AppealUserContent(bill, aftercare, overallReasoning, disputed)
	if err != nil {
		return "", err
	}
	text, err := a.complete(ctx, advisor.AppealSystemPrompt, user)
	if err != nil {
		return "", err
	}
	return advisor.DecodeAppeal(text)
}

// complete performs one JSON-mode chat completion and returns the raw
// message content.
func (a *Advisor) complete(ctx context.Context, system, user string) (string, error) {
	reqBody := map[string]interface{}{
		"model":                 a.model,
		"max_completion_tokens": 16384,
		"messages": []map[string]interface{}{
			{
				"role":    "system",
				"content": system,
			},
			{
				"role":    "user",
				"content": user,
			},
		},
		"response_format": map[string]interface{}{
			"type": "json_object",
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling openai API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := advisor.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return "", advisor.NewRateLimitError("openai", baseErr, retryAfter)
		}
		return "", baseErr
	}

	return extractContent(respBody)
}

// apiResponse models the OpenAI Chat Completions API response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func extractContent(body []byte) (string, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from API: no choices")
	}

	if resp.Choices[0].FinishReason == "length" {
		return "", fmt.Errorf("output truncated (finish_reason: length): response exceeded output token limit")
	}

	return resp.Choices[0].Message.Content, nil
}
