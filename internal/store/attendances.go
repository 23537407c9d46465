package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/T4ya/appasistencia/internal/model"
)

// HasAttendance reports whether a registration already exists for the
// (event, student) pair. Duplicate prevention lives here, never in the
// spreadsheet layer.
func (s *Store) HasAttendance(eventID, studentID string) (bool, error) {
	var id string
	err := s.db.QueryRow(`
		SELECT id FROM attendances WHERE event_id = ? AND student_id = ?
	`, eventID, studentID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query attendance failed: %w", err)
	}
	return true, nil
}

// CreateAttendance inserts the authoritative registration row.
func (s *Store) CreateAttendance(eventID, studentID, verifiedBy string) (*model.Attendance, error) {
	att := &model.Attendance{
		ID:         uuid.New().String(),
		EventID:    eventID,
		StudentID:  studentID,
		VerifiedBy: verifiedBy,
		Timestamp:  time.Now().UTC().Format("2006-01-02 15:04:05"),
	}
	_, err := s.db.Exec(`
		INSERT INTO attendances (id, event_id, student_id, verified_by, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`, att.ID, att.EventID, att.StudentID, att.VerifiedBy, att.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("insert attendance failed: %w", err)
	}
	return att, nil
}

// EventAttendee is one row of an event's registration listing.
type EventAttendee struct {
	model.Student
	Timestamp string `json:"timestamp"`
}

// ListEventAttendances returns the students registered for an event, newest
// first, joined with their display data.
func (s *Store) ListEventAttendances(eventID string) ([]EventAttendee, error) {
	rows, err := s.db.Query(`
		SELECT st.id, st.code, st.program, st.full_name, st.document_id, a.timestamp
		FROM attendances a
		JOIN students st ON st.id = a.student_id
		WHERE a.event_id = ?
		ORDER BY a.timestamp DESC
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("query event attendances failed: %w", err)
	}
	defer rows.Close()

	var out []EventAttendee
	for rows.Next() {
		var at EventAttendee
		if err := rows.Scan(&at.ID, &at.Code, &at.Program, &at.FullName, &at.DocumentID, &at.Timestamp); err != nil {
			return nil, fmt.Errorf("scan event attendance failed: %w", err)
		}
		out = append(out, at)
	}
	return out, rows.Err()
}
