package gemini

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
	apiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
)

// Advisor implements port.BillAdvisor using Google's Gemini API.
type Advisor struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewAdvisor creates a Gemini-based bill advisor.
func NewAdvisor(cfg *config.AdvisorProviderConfig) *Advisor {
	return newAdvisor(cfg, "")
}

// NewAdvisorWithEndpoint creates an advisor pointing at a custom API endpoint (for testing).
func NewAdvisorWithEndpoint(cfg *config.AdvisorProviderConfig, endpoint string) *Advisor {
	return newAdvisor(cfg, endpoint)
}

func newAdvisor(cfg *config.AdvisorProviderConfig, endpoint string) *Advisor {
	model := cfg.DefaultModel
	if model == "" {
		model = "gemini-2.0-flash"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s:generateContent", apiBaseURL, model)
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

// complete performs one generateContent round trip and returns the raw text
// of the first candidate part.
func (a *Advisor) complete(ctx context.Context, system, user string) (string, error) {
	reqBody := map[string]interface{}{
		"systemInstruction": map[string]interface{}{
			"parts": []map[string]interface{}{
				{"text": system},
			},
		},
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]interface{}{
					{"text": user},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
			"maxOutputTokens":  16384,
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
	req.Header.Set("x-goog-api-key", a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling gemini API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := advisor.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return "", advisor.NewRateLimitError("gemini", baseErr, retryAfter)
		}
		return "", baseErr
	}

	return extractContent(respBody)
}

// geminiResponse models the Gemini API response.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

func extractContent(body []byte) (string, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("empty response from API: no candidates")
	}

	if len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from API: no parts")
	}

	if resp.Candidates[0].FinishReason == "MAX_TOKENS" {
		return "", fmt.Errorf("output truncated (finishReason: MAX_TOKENS): response exceeded output token limit")
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}
