package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/T4ya/appasistencia/internal/model"
)

// CreateEvent inserts a new event and returns it with its generated id.
func (s *Store) CreateEvent(title, date, description, createdBy string) (*model.Event, error) {
	ev := &model.Event{
		ID:          uuid.New().String(),
		Title:       title,
		Date:        date,
		Description: description,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC().Format("2006-01-02 15:04:05"),
	}
	_, err := s.db.Exec(`
		INSERT INTO events (id, title, date, description, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, ev.ID, ev.Title, ev.Date, ev.Description, ev.CreatedBy, ev.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert event failed: %w", err)
	}
	return ev, nil
}

// GetEvent fetches one event by id. Returns ErrNotFound when absent.
func (s *Store) GetEvent(id string) (*model.Event, error) {
	var ev model.Event
	err := s.db.QueryRow(`
		SELECT id, title, date, description, created_by, created_at
		FROM events WHERE id = ?
	`, id).Scan(&ev.ID, &ev.Title, &ev.Date, &ev.Description, &ev.CreatedBy, &ev.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query event failed: %w", err)
	}
	return &ev, nil
}

// ListEvents returns all events, newest first.
func (s *Store) ListEvents() ([]*model.Event, error) {
	rows, err := s.db.Query(`
		SELECT id, title, date, description, created_by, created_at
		FROM events ORDER BY date DESC, created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query events failed: %w", err)
	}
	defer rows.Close()

	var out []*model.Event
	for rows.Next() {
		var ev model.Event
		if err := rows.Scan(&ev.ID, &ev.Title, &ev.Date, &ev.Description, &ev.CreatedBy, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event failed: %w", err)
		}
		out = append(out, &ev)
	}
	return out, rows.Err()
}
