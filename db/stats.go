package db

import (
	"fmt"
)

// ModelUsageStats represents usage statistics for a specific model
type ModelUsageStats struct {
	Model           string
	MessageCount    int64
	TotalTokens     int64
	AvgResponseTime float64 // seconds
}

// GetModelUsage returns per-model aggregates over the analytics samples,
// heaviest token consumers first.
func (s *Store) GetModelUsage() ([]*ModelUsageStats, error) {
	query := `
		SELECT
			model,
			COUNT(*) as message_count,
			COALESCE(SUM(tokens_used), 0) as total_tokens,
			COALESCE(AVG(response_time), 0) as avg_response_time
		FROM analytics_messages
		GROUP BY model
		ORDER BY total_tokens DESC
	`

	rows, err := s.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get model usage: %w", err)
	}
	defer rows.Close()

	var stats []*ModelUsageStats
	for rows.Next() {
		var st ModelUsageStats
		if err := rows.Scan(&st.Model, &st.MessageCount, &st.TotalTokens, &st.AvgResponseTime); err != nil {
			return nil, fmt.Errorf("failed to scan model usage: %w", err)
		}
		stats = append(stats, &st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read model usage: %w", err)
	}

	return stats, nil
}
