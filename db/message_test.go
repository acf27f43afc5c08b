package db

import (
	"fmt"
	"sync"
	"testing"
)

func TestSaveMessageAssignsMonotonicIDs(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 5; i++ {
		if err := store.SaveMessage("gpt-3.5-turbo", fmt.Sprintf("message %d", i), "reply", 3); err != nil {
			t.Fatalf("SaveMessage failed: %v", err)
		}
	}

	history, err := store.GetChatHistory(50)
	if err != nil {
		t.Fatalf("GetChatHistory failed: %v", err)
	}
	if len(history) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(history))
	}

	// Newest first means strictly decreasing ids
	for i := 1; i < len(history); i++ {
		if history[i].ID >= history[i-1].ID {
			t.Errorf("ids not strictly decreasing: %d then %d", history[i-1].ID, history[i].ID)
		}
	}

	if history[0].Timestamp.IsZero() {
		t.Error("timestamp not populated")
	}
	if history[0].TokensUsed != 3 {
		t.Errorf("expected 3 tokens, got %d", history[0].TokensUsed)
	}
}

func TestGetChatHistoryLimit(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 10; i++ {
		if err := store.SaveMessage("m", fmt.Sprintf("msg %d", i), "r", 0); err != nil {
			t.Fatalf("SaveMessage failed: %v", err)
		}
	}

	history, err := store.GetChatHistory(4)
	if err != nil {
		t.Fatalf("GetChatHistory failed: %v", err)
	}
	if len(history) != 4 {
		t.Errorf("expected 4 messages, got %d", len(history))
	}

	// Newest row comes first
	if history[0].UserMessage != "msg 9" {
		t.Errorf("expected newest message first, got %q", history[0].UserMessage)
	}
}

func TestGetChatHistoryZeroLimit(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveMessage("m", "q", "a", 1); err != nil {
		t.Fatalf("SaveMessage failed: %v", err)
	}

	history, err := store.GetChatHistory(0)
	if err != nil {
		t.Fatalf("GetChatHistory failed: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("expected empty history with limit 0, got %d rows", len(history))
	}
}

func TestClearHistoryLeavesAnalytics(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveMessage("m", "q", "a", 1); err != nil {
		t.Fatalf("SaveMessage failed: %v", err)
	}
	if err := store.SaveAnalytics(testTimestamp(t, "2026-08-29T10:00:00Z"), "m", 1, 0.5, 1); err != nil {
		t.Fatalf("SaveAnalytics failed: %v", err)
	}

	if err := store.ClearHistory(); err != nil {
		t.Fatalf("ClearHistory failed: %v", err)
	}

	history, err := store.GetChatHistory(50)
	if err != nil {
		t.Fatalf("GetChatHistory failed: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("expected empty history after clear, got %d rows", len(history))
	}

	samples, err := store.GetAnalyticsHistory()
	if err != nil {
		t.Fatalf("GetAnalyticsHistory failed: %v", err)
	}
	if len(samples) != 1 {
		t.Errorf("ClearHistory must not touch analytics, got %d samples", len(samples))
	}
}

func TestConcurrentSaves(t *testing.T) {
	store := newTestStore(t)

	const workers = 2
	const perWorker = 100

	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if err := store.SaveMessage("m", fmt.Sprintf("w%d-%d", w, i), "r", 1); err != nil {
					errs <- err
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent SaveMessage failed: %v", err)
	}

	history, err := store.GetChatHistory(workers * perWorker * 2)
	if err != nil {
		t.Fatalf("GetChatHistory failed: %v", err)
	}
	if len(history) != workers*perWorker {
		t.Fatalf("expected %d rows, got %d", workers*perWorker, len(history))
	}

	seen := make(map[int64]bool, len(history))
	for _, msg := range history {
		if seen[msg.ID] {
			t.Errorf("duplicate id %d", msg.ID)
		}
		seen[msg.ID] = true
	}
}
