package db

import (
	"fmt"
	"time"
)

// SaveAnalytics appends one analytics sample. Unlike messages, the timestamp
// is supplied by the caller.
func (s *Store) SaveAnalytics(timestamp time.Time, model string, messageLength int, responseTime float64, tokensUsed int) error {
	_, err := s.conn.Exec(
		"INSERT INTO analytics_messages (timestamp, model, message_length, response_time, tokens_used) VALUES (?, ?, ?, ?, ?)",
		timestamp, model, messageLength, responseTime, tokensUsed,
	)
	if err != nil {
		return fmt.Errorf("failed to save analytics sample: %w", err)
	}
	return nil
}

// GetAnalyticsHistory returns all analytics samples oldest first, since the
// data is consumed as a time series.
func (s *Store) GetAnalyticsHistory() ([]*AnalyticsSample, error) {
	rows, err := s.conn.Query(
		"SELECT id, timestamp, model, message_length, response_time, tokens_used FROM analytics_messages ORDER BY timestamp ASC, id ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query analytics history: %w", err)
	}
	defer rows.Close()

	var samples []*AnalyticsSample
	for rows.Next() {
		var sample AnalyticsSample
		if err := rows.Scan(&sample.ID, &sample.Timestamp, &sample.Model, &sample.MessageLength, &sample.ResponseTime, &sample.TokensUsed); err != nil {
			return nil, fmt.Errorf("failed to scan analytics sample: %w", err)
		}
		samples = append(samples, &sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read analytics history: %w", err)
	}

	return samples, nil
}

// ClearAnalytics deletes all analytics samples
func (s *Store) ClearAnalytics() error {
	_, err := s.conn.Exec("DELETE FROM analytics_messages")
	if err != nil {
		return fmt.Errorf("failed to clear analytics: %w", err)
	}
	return nil
}
