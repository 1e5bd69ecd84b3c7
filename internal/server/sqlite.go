package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/zhubert/travelchat/internal/api"
	pkgerrors "github.com/zhubert/travelchat/internal/errors"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens (creating if needed) the database at dbPath.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Foreign keys are per connection in SQLite, so they go in the DSN
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db, now: time.Now}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS threads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		thread_id INTEGER NOT NULL REFERENCES threads(id) ON DELETE CASCADE,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_thread ON messages(thread_id, id);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateThread inserts a thread. An empty title is stored as the default.
func (s *SQLiteStore) CreateThread(ctx context.Context, title string) (api.Thread, error) {
	if title == "" {
		title = api.DefaultThreadTitle
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO threads (title, created_at) VALUES (?, ?)`,
		title, s.now().Unix())
	if err != nil {
		return api.Thread{}, fmt.Errorf("insert thread: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return api.Thread{}, fmt.Errorf("thread id: %w", err)
	}
	return api.Thread{ID: id, Title: title}, nil
}

// ListThreads returns every thread, newest first.
func (s *SQLiteStore) ListThreads(ctx context.Context) ([]api.Thread, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title FROM threads ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query threads: %w", err)
	}
	defer rows.Close()

	threads := []api.Thread{}
	for rows.Next() {
		var t api.Thread
		if err := rows.Scan(&t.ID, &t.Title); err != nil {
			return nil, fmt.Errorf("scan thread row: %w", err)
		}
		threads = append(threads, t)
	}
	return threads, rows.Err()
}

// GetThread returns one thread.
func (s *SQLiteStore) GetThread(ctx context.Context, id int64) (api.Thread, error) {
	var t api.Thread
	err := s.db.QueryRowContext(ctx, `SELECT id, title FROM threads WHERE id = ?`, id).
		Scan(&t.ID, &t.Title)
	if err == sql.ErrNoRows {
		return api.Thread{}, pkgerrors.ThreadNotFound(id)
	}
	if err != nil {
		return api.Thread{}, fmt.Errorf("scan thread row: %w", err)
	}
	return t, nil
}

// Messages returns a thread's messages oldest first.
func (s *SQLiteStore) Messages(ctx context.Context, threadID int64) ([]api.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content FROM messages WHERE thread_id = ? ORDER BY id`, threadID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	msgs := []api.Message{}
	for rows.Next() {
		var m api.Message
		if err := rows.Scan(&m.Role, &m.Content); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// AddMessage appends msg to a thread.
func (s *SQLiteStore) AddMessage(ctx context.Context, threadID int64, msg api.Message) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (thread_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		threadID, string(msg.Role), msg.Content, s.now().Unix())
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// DeleteThread removes a thread. Its messages go with it.
func (s *SQLiteStore) DeleteThread(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM threads WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete thread: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete thread: %w", err)
	}
	if n == 0 {
		return pkgerrors.ThreadNotFound(id)
	}
	return nil
}
