package db

import "time"

// Message represents one user/assistant exchange in the chat history
type Message struct {
	ID          int64     `json:"id"`
	Model       string    `json:"model"`
	UserMessage string    `json:"user_message"`
	AIResponse  string    `json:"ai_response"`
	Timestamp   time.Time `json:"timestamp"`
	TokensUsed  int       `json:"tokens_used"`
}

// AnalyticsSample represents one recorded observation of message length,
// latency and token usage tied to a single exchange
type AnalyticsSample struct {
	ID            int64     `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Model         string    `json:"model"`
	MessageLength int       `json:"message_length"`
	ResponseTime  float64   `json:"response_time"` // seconds
	TokensUsed    int       `json:"tokens_used"`
}
