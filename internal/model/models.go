package model

// Event is an organizer-created event students register against.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
	CreatedBy   string `json:"created_by,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// Student is one roster entry; DocumentID is the key students register with.
type Student struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Program    string `json:"program"`
	FullName   string `json:"full_name"`
	DocumentID string `json:"document_id"`
}

// Attendance is the authoritative relational registration record.
type Attendance struct {
	ID         string `json:"id"`
	EventID    string `json:"event_id"`
	StudentID  string `json:"student_id"`
	VerifiedBy string `json:"verified_by,omitempty"`
	Timestamp  string `json:"timestamp"`
}

// AttendanceRecord is the payload handed to the spreadsheet mirror. EventDate
// is pre-formatted as a locale date string by the caller.
type AttendanceRecord struct {
	DocumentID string `json:"documentId"`
	EventID    string `json:"eventId"`
	EventTitle string `json:"eventTitle"`
	EventDate  string `json:"eventDate"`
}
