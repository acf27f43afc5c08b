package db

import (
	"fmt"
	"time"
)

// SaveMessage inserts a new exchange into the chat history. The timestamp is
// assigned by the store at write time, not by the caller.
func (s *Store) SaveMessage(model, userMessage, aiResponse string, tokensUsed int) error {
	_, err := s.conn.Exec(
		"INSERT INTO messages (model, user_message, ai_response, timestamp, tokens_used) VALUES (?, ?, ?, ?, ?)",
		model, userMessage, aiResponse, time.Now().UTC(), tokensUsed,
	)
	if err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}
	return nil
}

// GetChatHistory returns at most limit messages, newest first. Rows written in
// the same second are ordered by id so the result stays stable.
func (s *Store) GetChatHistory(limit int) ([]*Message, error) {
	rows, err := s.conn.Query(
		"SELECT id, model, user_message, ai_response, timestamp, tokens_used FROM messages ORDER BY timestamp DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat history: %w", err)
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.ID, &msg.Model, &msg.UserMessage, &msg.AIResponse, &msg.Timestamp, &msg.TokensUsed); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read chat history: %w", err)
	}

	return messages, nil
}

// ClearHistory deletes all message rows. Analytics samples are not touched;
// use ClearAnalytics for those.
func (s *Store) ClearHistory() error {
	_, err := s.conn.Exec("DELETE FROM messages")
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
