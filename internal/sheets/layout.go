package sheets

// Layout describes the structural conventions this system imposes on the
// roster worksheets. The positions drifted across revisions of the
// spreadsheets, so they are injected instead of hard-coded.
type Layout struct {
	// Worksheet is the tab name inside each spreadsheet.
	Worksheet string
	// HeaderRows bounds the event-marker scan: rows [0, HeaderRows).
	HeaderRows int
	// DateRow is the 1-based row holding the per-column last-attendance date.
	DateRow int
	// DataStartRow is the 1-based first student row.
	DataStartRow int
	// DocumentCol is the 0-based column holding the student document id.
	DocumentCol int
	// MinEventCol is the first 0-based column eligible for event allocation.
	MinEventCol int
	// AttendanceFirstCol..AttendanceLastCol is the 0-based band counted into
	// the per-student total.
	AttendanceFirstCol int
	AttendanceLastCol  int
	// TotalCol is the 0-based column receiving the per-student total.
	TotalCol int
}

// DefaultLayout matches the historical roster sheets: worksheet ASISTENCIA,
// document ids in column D, date stamps in row 7, students from row 8, events
// allocated from column F, attendance band G..T totalled into U.
func DefaultLayout() Layout {
	return Layout{
		Worksheet:          "ASISTENCIA",
		HeaderRows:         10,
		DateRow:            7,
		DataStartRow:       8,
		DocumentCol:        3,
		MinEventCol:        5,
		AttendanceFirstCol: 6,
		AttendanceLastCol:  19,
		TotalCol:           20,
	}
}
