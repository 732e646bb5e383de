package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/isdelr/event-registry/internal/database"
	"github.com/isdelr/event-registry/internal/models"
)

// SQLiteStore keeps events in a local SQLite file. It backs development runs
// and tests where no managed store is available.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database at path and applies the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := database.New(path)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// List returns all events in insertion order.
func (s *SQLiteStore) List(ctx context.Context) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, title, description, location, date, likes FROM events ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var ev models.Event
		var title, desc, location, date sql.NullString
		var likes sql.NullInt64
		if err := rows.Scan(&ev.ID, &title, &desc, &location, &date, &likes); err != nil {
			return nil, err
		}
		ev.Title = title.String
		ev.Description = desc.String
		ev.Location = location.String
		ev.Date = date.String
		ev.Likes = likes.Int64
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Add inserts a new event under a random UUID.
func (s *SQLiteStore) Add(ctx context.Context, event models.Event) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (id, title, description, location, date, likes) VALUES (?, ?, ?, ?, NULLIF(?, ''), ?)",
		id, event.Title, event.Description, event.Location, event.Date, event.Likes,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert event: %w", err)
	}
	return id, nil
}

// AdjustLikes updates the counter in a single statement.
func (s *SQLiteStore) AdjustLikes(ctx context.Context, id string, delta int64) (int64, error) {
	var likes int64
	err := s.db.QueryRowContext(ctx,
		"UPDATE events SET likes = MAX(0, COALESCE(likes, 0) + ?) WHERE id = ? RETURNING likes",
		delta, id,
	).Scan(&likes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("event %s: %w", id, ErrNotFound)
		}
		return 0, fmt.Errorf("failed to update likes: %w", err)
	}
	return likes, nil
}

// Count returns the number of stored events.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&n)
	return n, err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
