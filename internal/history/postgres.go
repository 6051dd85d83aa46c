package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore persists room messages in a single append-only table.
type PostgresStore struct {
	db    *sql.DB
	limit int
}

func NewPostgresStore(dsn string, limit int) (*PostgresStore, error) {
	if limit <= 0 {
		limit = 50
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &PostgresStore{db: db, limit: limit}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS room_messages (
            id BIGSERIAL PRIMARY KEY,
            room_id TEXT NOT NULL,
            payload JSONB NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE INDEX IF NOT EXISTS room_messages_room_id_idx
            ON room_messages (room_id, id DESC)`,
	}
	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, roomID string, message json.RawMessage) error {
	query := "INSERT INTO room_messages (room_id, payload) VALUES ($1, $2)"
	_, err := s.db.ExecContext(ctx, query, roomID, []byte(message))
	return err
}

func (s *PostgresStore) Recent(ctx context.Context, roomID string) ([]json.RawMessage, error) {
	query := `
		SELECT payload FROM room_messages
		WHERE room_id = $1
		ORDER BY id DESC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, roomID, s.limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []json.RawMessage
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		messages = append(messages, json.RawMessage(payload))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Newest-first from the query; callers want chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
