package sheets

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
)

// ErrStudentNotFound reports that a worksheet's roster has no row for the
// queried document id. It is an expected outcome, distinct from transport
// failures: the caller moves on to the next group.
var ErrStudentNotFound = errors.New("student not found in worksheet")

// Location identifies the cell where a student's attendance for an event is
// written: 1-based row, 0-based column.
type Location struct {
	SheetID string `json:"sheetId"`
	Row     int    `json:"rowIndex"`
	Col     int    `json:"columnIndex"`
	Group   string `json:"group"`
}

// Locator resolves (documentID, eventID) pairs into worksheet locations,
// allocating event columns on first use.
type Locator struct {
	client Client
	layout Layout
}

// NewLocator creates a locator bound to a transport client and layout.
func NewLocator(client Client, layout Layout) *Locator {
	return &Locator{client: client, layout: layout}
}

// Locate bulk-reads the worksheet once, resolves the event column (allocating
// one when absent) and scans the roster for the student row. Returns
// ErrStudentNotFound when the roster has no matching row; other errors are
// transport failures.
func (l *Locator) Locate(ctx context.Context, documentID, eventID, sheetID string) (Location, error) {
	grid, err := l.client.ReadSheet(ctx, sheetID, l.layout.Worksheet)
	if err != nil {
		return Location{}, fmt.Errorf("locate in %s: %w", sheetID, err)
	}

	// Student first: a roster miss must not leave an allocated event column
	// behind in a sheet that will never receive the mark.
	row, ok := l.findStudentRow(grid, documentID)
	if !ok {
		return Location{}, ErrStudentNotFound
	}

	col, err := l.resolveEventColumn(ctx, grid, eventID, sheetID)
	if err != nil {
		return Location{}, err
	}

	return Location{SheetID: sheetID, Row: row, Col: col}, nil
}

// Lookup resolves a location without side effects: the roster is scanned for
// the student and the event column is reported only when a marker already
// exists (Col is -1 otherwise). Diagnostic passes that must never write use
// this instead of Locate.
func (l *Locator) Lookup(ctx context.Context, documentID, eventID, sheetID string) (Location, error) {
	grid, err := l.client.ReadSheet(ctx, sheetID, l.layout.Worksheet)
	if err != nil {
		return Location{}, fmt.Errorf("lookup in %s: %w", sheetID, err)
	}

	row, ok := l.findStudentRow(grid, documentID)
	if !ok {
		return Location{}, ErrStudentNotFound
	}

	col := grid.FindHeaderContaining(eventID, l.layout.HeaderRows)
	return Location{SheetID: sheetID, Row: row, Col: col}, nil
}

// resolveEventColumn finds the column carrying the event marker, or allocates
// the first free header column at or after MinEventCol and stamps the event
// id into row 1. The first marker found scanning top-to-bottom, left-to-right
// is authoritative; duplicates are not detected.
func (l *Locator) resolveEventColumn(ctx context.Context, grid Grid, eventID, sheetID string) (int, error) {
	if col := grid.FindHeaderContaining(eventID, l.layout.HeaderRows); col >= 0 {
		return col, nil
	}

	col := grid.FirstEmptyCol(0, l.layout.MinEventCol)
	ref := CellRef(col, 1)
	err := l.client.WriteRange(ctx, sheetID, l.layout.Worksheet+"!"+ref, [][]interface{}{{eventID}})
	if err != nil {
		return 0, fmt.Errorf("allocate event column %s: %w", ref, err)
	}
	log.Printf("sheets: allocated column %s for event %q in %s", ColumnLetter(col), eventID, sheetID)
	return col, nil
}

// findStudentRow scans from the first data row to the end of the sheet,
// comparing the trimmed document column against the trimmed query. Rows too
// short to carry a document id are skipped, not errors. Returns the 1-based
// row of the first match.
func (l *Locator) findStudentRow(grid Grid, documentID string) (int, bool) {
	want := strings.TrimSpace(documentID)
	for row := l.layout.DataStartRow - 1; row < len(grid); row++ {
		if grid.RowLen(row) <= l.layout.DocumentCol {
			continue
		}
		if strings.TrimSpace(grid.Cell(row, l.layout.DocumentCol)) == want {
			return row + 1, true
		}
	}
	return 0, false
}
