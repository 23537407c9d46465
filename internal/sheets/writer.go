package sheets

import (
	"context"
	"fmt"
	"log"
)

// Writer commits an attendance mark at a resolved location: the mark itself,
// the event date stamp, and the recomputed per-student total. Each step is a
// separate remote write; the underlying store has no batch transaction, so a
// later step failing leaves the earlier writes in place (accepted, surfaced
// only via logs).
type Writer struct {
	client Client
	layout Layout
}

// NewWriter creates a writer bound to a transport client and layout.
func NewWriter(client Client, layout Layout) *Writer {
	return &Writer{client: client, layout: layout}
}

// MarkAttendance writes "1" into the located cell, stamps eventDate into the
// date row of the same column, then re-reads the attendance band for the row
// and rewrites the total column with the count of "1" marks. The total is
// always re-derived from cell contents, never incremented, so repeated calls
// with the same location do not inflate it.
func (w *Writer) MarkAttendance(ctx context.Context, loc Location, eventDate string) error {
	markRef := CellRef(loc.Col, loc.Row)
	if err := w.writeCell(ctx, loc.SheetID, markRef, "1"); err != nil {
		return fmt.Errorf("write mark %s: %w", markRef, err)
	}

	dateRef := CellRef(loc.Col, w.layout.DateRow)
	if err := w.writeCell(ctx, loc.SheetID, dateRef, eventDate); err != nil {
		return fmt.Errorf("write date %s: %w", dateRef, err)
	}

	total, err := w.recomputeTotal(ctx, loc)
	if err != nil {
		return err
	}
	log.Printf("sheets: marked %s, total for row %d is %d", markRef, loc.Row, total)
	return nil
}

// recomputeTotal counts the "1" marks in the attendance band of the row and
// writes the count into the total column.
func (w *Writer) recomputeTotal(ctx context.Context, loc Location) (int, error) {
	band := RowRange(w.layout.AttendanceFirstCol, w.layout.AttendanceLastCol, loc.Row)
	grid, err := w.client.ReadSheet(ctx, loc.SheetID, w.layout.Worksheet+"!"+band)
	if err != nil {
		return 0, fmt.Errorf("read attendance band %s: %w", band, err)
	}

	total := 0
	for col := 0; col < grid.RowLen(0); col++ {
		if grid.Cell(0, col) == "1" {
			total++
		}
	}

	totalRef := CellRef(w.layout.TotalCol, loc.Row)
	if err := w.writeCell(ctx, loc.SheetID, totalRef, total); err != nil {
		return 0, fmt.Errorf("write total %s: %w", totalRef, err)
	}
	return total, nil
}

func (w *Writer) writeCell(ctx context.Context, sheetID, ref string, value interface{}) error {
	return w.client.WriteRange(ctx, sheetID, w.layout.Worksheet+"!"+ref, [][]interface{}{{value}})
}
