package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps the SQLite database holding chat history and analytics samples.
type Store struct {
	conn *sql.DB
}

// Open creates the data directory if needed, opens the database file inside it
// and ensures the schema exists.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "chat_cache.db")

	// _busy_timeout lets concurrent writers wait instead of failing
	conn, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The pool hands every calling goroutine its own handle; SQLite still
	// wants a single writer, so cap the pool at one open connection.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	store := &Store{conn: conn}

	if err := store.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.conn.Close()
}

// migrate creates the required tables idempotently
func (s *Store) migrate() error {
	migrations := []string{
		// Chat history, one row per exchange
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			model TEXT,
			user_message TEXT,
			ai_response TEXT,
			timestamp DATETIME,
			tokens_used INTEGER
		)`,

		// Analytics samples, append-only
		`CREATE TABLE IF NOT EXISTS analytics_messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp DATETIME,
			model TEXT,
			message_length INTEGER,
			response_time REAL,
			tokens_used INTEGER
		)`,

		`CREATE INDEX IF NOT EXISTS idx_messages_timestamp ON messages(timestamp DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_analytics_timestamp ON analytics_messages(timestamp ASC)`,
	}

	for _, migration := range migrations {
		if _, err := s.conn.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, migration)
		}
	}

	return nil
}

// StoreStats represents database statistics
type StoreStats struct {
	MessageCount   int64
	AnalyticsCount int64
	DBSizeBytes    int64
}

// GetStats returns database statistics
func (s *Store) GetStats() (*StoreStats, error) {
	stats := &StoreStats{}

	err := s.conn.QueryRow("SELECT COUNT(*) FROM messages").Scan(&stats.MessageCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}

	err = s.conn.QueryRow("SELECT COUNT(*) FROM analytics_messages").Scan(&stats.AnalyticsCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count analytics samples: %w", err)
	}

	// Database size is page_count * page_size
	var pageCount, pageSize int64
	err = s.conn.QueryRow("PRAGMA page_count").Scan(&pageCount)
	if err != nil {
		return nil, fmt.Errorf("failed to get page count: %w", err)
	}

	err = s.conn.QueryRow("PRAGMA page_size").Scan(&pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to get page size: %w", err)
	}

	stats.DBSizeBytes = pageCount * pageSize

	return stats, nil
}

// Vacuum optimizes the database file
func (s *Store) Vacuum() error {
	_, err := s.conn.Exec("VACUUM")
	if err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	return nil
}
