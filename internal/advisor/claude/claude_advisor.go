package claude

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
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
)

// Advisor implements port.BillAdvisor using the Anthropic Messages API.
type Advisor struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewAdvisor creates a Claude-based bill advisor from a provider config.
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
		model = "claude-sonnet-4-20250514"
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

// complete performs one Messages API round trip and returns the raw text of
// the first content block.
func (a *Advisor) complete(ctx context.Context, system, user string) (string, error) {
	reqBody := map[string]interface{}{
		"model":      a.model,
		"max_tokens": 16384,
		"system":     system,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": user,
			},
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
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling anthropic API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := advisor.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return "", advisor.NewRateLimitError("claude", baseErr, retryAfter)
		}
		return "", baseErr
	}

	return extractContent(respBody)
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func extractContent(body []byte) (string, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Content) == 0 {
		return "", fmt.Errorf("empty response from API: no content blocks")
	}

	if resp.StopReason == "max_tokens" {
		return "", fmt.Errorf("output truncated (stop_reason: max_tokens): response exceeded output token limit")
	}

	return resp.Content[0].Text, nil
}
