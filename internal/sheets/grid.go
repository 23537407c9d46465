package sheets

import (
	"fmt"
	"strings"
)

// Grid is the rectangular cell snapshot returned by a bulk worksheet read.
// Rows may be ragged; out-of-range access reads as the empty string.
type Grid [][]string

// Cell returns the trimmed-nothing raw value at (row, col), both 0-based.
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) {
		return ""
	}
	r := g[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// RowLen returns the number of populated cells in a row.
func (g Grid) RowLen(row int) int {
	if row < 0 || row >= len(g) {
		return 0
	}
	return len(g[row])
}

// FindHeaderContaining scans the header region (rows [0, maxRows), left to
// right) for the first cell whose value contains sub. Returns the 0-based
// column index, or -1 when no header cell matches.
//
// Substring match, not equality: event ids are routinely embedded in larger
// header text ("CHARLA IA - EV025").
func (g Grid) FindHeaderContaining(sub string, maxRows int) int {
	if sub == "" {
		return -1
	}
	for row := 0; row < maxRows && row < len(g); row++ {
		for col, cell := range g[row] {
			if cell != "" && strings.Contains(cell, sub) {
				return col
			}
		}
	}
	return -1
}

// FirstEmptyCol returns the first column index >= minCol that is empty in the
// given row. A row shorter than minCol yields minCol itself.
func (g Grid) FirstEmptyCol(row, minCol int) int {
	col := minCol
	for ; col < g.RowLen(row); col++ {
		if g.Cell(row, col) == "" {
			return col
		}
	}
	return col
}

// ColumnLetter converts a 0-based column index to its A1 letter form.
func ColumnLetter(col int) string {
	letters := ""
	for col >= 0 {
		letters = string(rune('A'+col%26)) + letters
		col = col/26 - 1
	}
	return letters
}

// CellRef builds an A1 cell reference from a 0-based column and 1-based row.
func CellRef(col, row int) string {
	return fmt.Sprintf("%s%d", ColumnLetter(col), row)
}

// RowRange builds an A1 range spanning [firstCol, lastCol] on one row.
// Columns are 0-based, the row is 1-based.
func RowRange(firstCol, lastCol, row int) string {
	return fmt.Sprintf("%s%d:%s%d", ColumnLetter(firstCol), row, ColumnLetter(lastCol), row)
}
