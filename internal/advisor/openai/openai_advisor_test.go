package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billaudit/internal/advisor"
	openai "billaudit/internal/advisor/openai"
	"billaudit/internal/config"
	"billaudit/internal/domain"
	"billaudit/internal/port"
)

func newTestAdvisor(serverURL string) *openai.Advisor {
	cfg := &config.AdvisorProviderConfig{
		Provider:     "openai",
		APIKey:       "test-openai-key",
		DefaultModel: "gpt-4o",
		TimeoutSecs:  30,
	}
	return openai.NewAdvisorWithEndpoint(cfg, serverURL)
}

func successResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
	}
}

func TestExtractLineItems_Success(t *testing.T) {
	llmJSON := `{"codes":[{"code":"70551","description":"MRI brain","charge":"$3,200","units":"1"},{"code":"99213","description":"Office visit","charge":"$180"}]}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-openai-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		assert.NoError(t, err)
		assert.Equal(t, "gpt-4o", reqBody["model"])

		rf := reqBody["response_format"].(map[string]interface{})
		assert.Equal(t, "json_object", rf["type"])

		messages := reqBody["messages"].([]interface{})
		assert.Len(t, messages, 2)
		sys := messages[0].(map[string]interface{})
		assert.Equal(t, "system", sys["role"])
		user := messages[1].(map[string]interface{})
		assert.Equal(t, "user", user["role"])
		assert.Contains(t, user["content"], "Bill text:")

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(successResponse(llmJSON))
	}))
	defer server.Close()

	a := newTestAdvisor(server.URL)

	items, err := a.ExtractLineItems(context.Background(), "some bill text", "")

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "70551", items[0].Code)
	assert.Equal(t, "$3,200", items[0].Charge)
	assert.Equal(t, "99213", items[1].Code)
}

func TestValidateCodes_Success(t *testing.T) {
	llmJSON := `{"validations":[{"code":"70551","status":"disputed","reasoning":"billed well above disclosed rates"}],"overall_reasoning":"one charge looks inflated"}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		assert.NoError(t, err)

		user := reqBody["messages"].([]interface{})[1].(map[string]interface{})
		assert.Contains(t, user["content"], "Codes with pricing data:")
		assert.Contains(t, user["content"], "70551")

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(successResponse(llmJSON))
	}))
	defer server.Close()

	a := newTestAdvisor(server.URL)

	outcome, err := a.ValidateCodes(context.Background(), "bill", "aftercare", []port.EnrichedLineItem{
		{Code: "70551", Description: "MRI brain", BilledCharge: 3200},
	})

	require.NoError(t, err)
	require.Len(t, outcome.Validations, 1)
	assert.Equal(t, domain.StatusDisputed, outcome.Validations[0].Status)
	assert.Equal(t, "one charge looks inflated", outcome.OverallReasoning)
}

func TestDraftAppeal_Success(t *testing.T) {
	llmJSON := `{"appeal_draft":"Dear Billing Department, ..."}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(successResponse(llmJSON))
	}))
	defer server.Close()

	a := newTestAdvisor(server.URL)

	letter, err := a.DraftAppeal(context.Background(), "bill", "", "inflated charges", []port.DisputedItem{
		{Code: "70551", Description: "MRI brain", BilledCharge: 3200, Reasoning: "upcoded"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Dear Billing Department, ...", letter)
}

func TestExtractLineItems_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	a := newTestAdvisor(server.URL)

	_, err := a.ExtractLineItems(context.Background(), "bill", "")

	require.Error(t, err)
	var rlErr *advisor.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "openai", rlErr.Provider)
	assert.Equal(t, float64(30), rlErr.RetryAfter.Seconds())
}

func TestExtractLineItems_MalformedOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(successResponse("this is not JSON at all"))
	}))
	defer server.Close()

	a := newTestAdvisor(server.URL)

	_, err := a.ExtractLineItems(context.Background(), "bill", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing extraction output")
}

func TestExtractLineItems_TruncatedOutput(t *testing.T) {
	body := map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message":       map[string]interface{}{"role": "assistant", "content": `{"codes":[`},
				"finish_reason": "length",
			},
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer server.Close()

	a := newTestAdvisor(server.URL)

	_, err := a.ExtractLineItems(context.Background(), "bill", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "output truncated")
}
