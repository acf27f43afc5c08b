package analytics

import (
	"time"

	"openrouter-chat/db"
	"openrouter-chat/utils"
)

// Statistics summarizes the recorded analytics samples
type Statistics struct {
	TotalMessages     int
	TotalTokens       int
	TokensPerMessage  float64
	MessagesPerMinute float64
}

// Tracker records analytics samples and derives summary statistics. It is
// read-only over the store apart from appends; statistics are re-derivable at
// any time.
type Tracker struct {
	store  *db.Store
	logger *utils.AppLogger
}

// NewTracker creates a tracker backed by the given store
func NewTracker(store *db.Store, logger *utils.AppLogger) *Tracker {
	return &Tracker{
		store:  store,
		logger: logger,
	}
}

// TrackMessage records one analytics sample with the current timestamp
func (t *Tracker) TrackMessage(model string, messageLength int, responseTime float64, tokensUsed int) error {
	return t.store.SaveAnalytics(time.Now().UTC(), model, messageLength, responseTime, tokensUsed)
}

// GetStatistics computes summary statistics over the full analytics history.
// It never fails visibly: on a read error the zero value is returned and the
// error logged.
func (t *Tracker) GetStatistics() Statistics {
	samples, err := t.store.GetAnalyticsHistory()
	if err != nil {
		t.logger.Error("Failed to load analytics history: %v", err)
		return Statistics{}
	}

	stats := Statistics{TotalMessages: len(samples)}
	if stats.TotalMessages == 0 {
		return stats
	}

	for _, sample := range samples {
		stats.TotalTokens += sample.TokensUsed
	}
	stats.TokensPerMessage = float64(stats.TotalTokens) / float64(stats.TotalMessages)

	// The rate is undefined with fewer than two samples or a zero span
	if stats.TotalMessages >= 2 {
		span := samples[len(samples)-1].Timestamp.Sub(samples[0].Timestamp).Minutes()
		if span > 0 {
			stats.MessagesPerMinute = float64(stats.TotalMessages) / span
		}
	}

	return stats
}

// ClearData resets analytics tracking by truncating the analytics table
func (t *Tracker) ClearData() error {
	return t.store.ClearAnalytics()
}
