package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/T4ya/appasistencia/internal/model"
)

// GetStudentByDocument fetches a student by document id (trimmed before the
// lookup, the same normalization the spreadsheet scan applies). Returns
// ErrNotFound when absent.
func (s *Store) GetStudentByDocument(documentID string) (*model.Student, error) {
	var st model.Student
	err := s.db.QueryRow(`
		SELECT id, code, program, full_name, document_id
		FROM students WHERE document_id = ?
	`, strings.TrimSpace(documentID)).Scan(&st.ID, &st.Code, &st.Program, &st.FullName, &st.DocumentID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query student failed: %w", err)
	}
	return &st, nil
}

// CreateStudent inserts a roster entry.
func (s *Store) CreateStudent(code, program, fullName, documentID string) (*model.Student, error) {
	st := &model.Student{
		ID:         uuid.New().String(),
		Code:       code,
		Program:    program,
		FullName:   fullName,
		DocumentID: strings.TrimSpace(documentID),
	}
	_, err := s.db.Exec(`
		INSERT INTO students (id, code, program, full_name, document_id)
		VALUES (?, ?, ?, ?, ?)
	`, st.ID, st.Code, st.Program, st.FullName, st.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("insert student failed: %w", err)
	}
	return st, nil
}
