package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"openrouter-chat/db"
)

// exportHistoryLimit bounds a single export; far above any realistic history
const exportHistoryLimit = 10000

// MessageExport represents one exported exchange
type MessageExport struct {
	Timestamp   time.Time `json:"timestamp"`
	Model       string    `json:"model"`
	UserMessage string    `json:"user_message"`
	AIResponse  string    `json:"ai_response"`
	TokensUsed  int       `json:"tokens_used"`
}

// ExportChatHistory writes the chat history to a timestamped JSON file in the
// export directory and returns the file path.
func ExportChatHistory(store *db.Store, exportDir string) (string, error) {
	if err := os.MkdirAll(exportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	history, err := store.GetChatHistory(exportHistoryLimit)
	if err != nil {
		return "", fmt.Errorf("failed to get chat history: %w", err)
	}

	exports := make([]MessageExport, 0, len(history))
	for _, msg := range history {
		exports = append(exports, MessageExport{
			Timestamp:   msg.Timestamp,
			Model:       msg.Model,
			UserMessage: msg.UserMessage,
			AIResponse:  msg.AIResponse,
			TokensUsed:  msg.TokensUsed,
		})
	}

	data, err := json.MarshalIndent(exports, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}

	filename := fmt.Sprintf("chat_history_%s.json", time.Now().Format("20060102_150405"))
	path := filepath.Join(exportDir, filename)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return path, nil
}
