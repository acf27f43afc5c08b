package ui

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"openrouter-chat/analytics"
	"openrouter-chat/db"
	"openrouter-chat/llm"
	"openrouter-chat/utils"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/models" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"data":[{"id":"first-model","name":"First"},{"id":"second-model","name":"Second"}]}`))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	config := &utils.Config{
		APIKey:      "test-key",
		BaseURL:     srv.URL + "/v1",
		MaxTokens:   1000,
		Temperature: 0.7,
		ExportDir:   t.TempDir(),
	}

	logger, err := utils.NewLogger(filepath.Join(t.TempDir(), "test.log"), "error", false)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	t.Cleanup(func() { logger.Close() })

	store, err := db.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	client, err := llm.New(config, logger)
	if err != nil {
		t.Fatalf("llm.New failed: %v", err)
	}

	return NewModel(config, logger, store, client, analytics.NewTracker(store, logger))
}

func TestNewModelSelectsFirstCatalogEntry(t *testing.T) {
	m := newTestModel(t)

	if m.selectedModel != "first-model" {
		t.Errorf("expected first catalog entry selected, got %q", m.selectedModel)
	}
}

func TestSelectModelByIndexAndID(t *testing.T) {
	m := newTestModel(t)

	m.selectModel("2")
	if m.selectedModel != "second-model" {
		t.Errorf("expected second-model after /model 2, got %q", m.selectedModel)
	}

	m.selectModel("first-model")
	if m.selectedModel != "first-model" {
		t.Errorf("expected first-model after /model first-model, got %q", m.selectedModel)
	}

	m.selectModel("no-such-model")
	if m.selectedModel != "first-model" {
		t.Errorf("selection must not change on unknown model, got %q", m.selectedModel)
	}
}

func TestHandleResponsePersistsExchange(t *testing.T) {
	m := newTestModel(t)

	m.handleResponse(responseMsg{
		userText: "hello there",
		result:   &llm.SendResult{Text: "hi", TokensUsed: 5},
		elapsed:  0.25,
	})

	history, err := m.store.GetChatHistory(50)
	if err != nil {
		t.Fatalf("GetChatHistory failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 message, got %d", len(history))
	}
	if history[0].AIResponse != "hi" || history[0].TokensUsed != 5 {
		t.Errorf("unexpected stored message: %+v", history[0])
	}
	if history[0].Model != "first-model" {
		t.Errorf("expected selected model recorded, got %q", history[0].Model)
	}

	samples, err := m.store.GetAnalyticsHistory()
	if err != nil {
		t.Fatalf("GetAnalyticsHistory failed: %v", err)
	}
	if len(samples) != 1 {
		t.Fatalf("expected 1 analytics sample, got %d", len(samples))
	}
	if samples[0].MessageLength != len("hello there") {
		t.Errorf("expected message length %d, got %d", len("hello there"), samples[0].MessageLength)
	}
	if samples[0].ResponseTime != 0.25 {
		t.Errorf("expected response time 0.25, got %f", samples[0].ResponseTime)
	}
}

func TestHandleResponseLogsFailureAsErrorText(t *testing.T) {
	m := newTestModel(t)

	m.handleResponse(responseMsg{
		userText: "hello",
		result:   &llm.SendResult{Err: "connection refused"},
		elapsed:  1.5,
	})

	history, err := m.store.GetChatHistory(50)
	if err != nil {
		t.Fatalf("GetChatHistory failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 message, got %d", len(history))
	}
	if !strings.HasPrefix(history[0].AIResponse, "Error: ") {
		t.Errorf("expected error marker in assistant text, got %q", history[0].AIResponse)
	}
	if history[0].TokensUsed != 0 {
		t.Errorf("failed exchange must record 0 tokens, got %d", history[0].TokensUsed)
	}

	// Failures are still tracked in analytics
	samples, err := m.store.GetAnalyticsHistory()
	if err != nil {
		t.Fatalf("GetAnalyticsHistory failed: %v", err)
	}
	if len(samples) != 1 {
		t.Errorf("expected failure tracked in analytics, got %d samples", len(samples))
	}
}

func TestClearAllResetsHistoryAndAnalytics(t *testing.T) {
	m := newTestModel(t)

	m.handleResponse(responseMsg{
		userText: "hello",
		result:   &llm.SendResult{Text: "hi", TokensUsed: 5},
		elapsed:  0.1,
	})

	m.clearAll()

	history, err := m.store.GetChatHistory(50)
	if err != nil {
		t.Fatalf("GetChatHistory failed: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("expected empty history after clear, got %d", len(history))
	}

	samples, err := m.store.GetAnalyticsHistory()
	if err != nil {
		t.Fatalf("GetAnalyticsHistory failed: %v", err)
	}
	if len(samples) != 0 {
		t.Errorf("expected empty analytics after clear, got %d", len(samples))
	}
}
