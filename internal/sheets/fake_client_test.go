package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// writeOp records one remote write for assertions.
type writeOp struct {
	sheetID string
	ref     string
	value   string
}

// fakeClient is an in-memory Client: one mutable grid per sheet id, with a
// write log. Ranges use the same A1 forms production code emits.
type fakeClient struct {
	mu      sync.Mutex
	sheets  map[string]Grid
	writes  []writeOp
	readErr map[string]error
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		sheets:  make(map[string]Grid),
		readErr: make(map[string]error),
	}
}

func (f *fakeClient) setGrid(sheetID string, rows [][]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	grid := make(Grid, len(rows))
	for i, r := range rows {
		grid[i] = append([]string(nil), r...)
	}
	f.sheets[sheetID] = grid
}

func (f *fakeClient) writesTo(sheetID string) []writeOp {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []writeOp
	for _, w := range f.writes {
		if w.sheetID == sheetID {
			out = append(out, w)
		}
	}
	return out
}

// parseCellRef converts "G9" into 0-based column and 1-based row.
func parseCellRef(ref string) (col, row int, err error) {
	i := 0
	for i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z' {
		col = col*26 + int(ref[i]-'A') + 1
		i++
	}
	if i == 0 || i == len(ref) {
		return 0, 0, fmt.Errorf("bad cell ref %q", ref)
	}
	row, err = strconv.Atoi(ref[i:])
	if err != nil {
		return 0, 0, fmt.Errorf("bad cell ref %q", ref)
	}
	return col - 1, row, nil
}

func (f *fakeClient) ReadSheet(_ context.Context, sheetID, rangeSpec string) (Grid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.readErr[sheetID]; err != nil {
		return nil, err
	}
	grid := f.sheets[sheetID]

	_, cells := splitRange(rangeSpec)
	if cells == "" {
		out := make(Grid, len(grid))
		for i, r := range grid {
			out[i] = append([]string(nil), r...)
		}
		return out, nil
	}

	parts := strings.SplitN(cells, ":", 2)
	startCol, startRow, err := parseCellRef(parts[0])
	if err != nil {
		return nil, err
	}
	endCol, endRow := startCol, startRow
	if len(parts) == 2 {
		endCol, endRow, err = parseCellRef(parts[1])
		if err != nil {
			return nil, err
		}
	}

	out := make(Grid, 0, endRow-startRow+1)
	for row := startRow; row <= endRow; row++ {
		line := make([]string, 0, endCol-startCol+1)
		for col := startCol; col <= endCol; col++ {
			line = append(line, grid.Cell(row-1, col))
		}
		out = append(out, line)
	}
	return out, nil
}

func (f *fakeClient) WriteRange(_ context.Context, sheetID, rangeSpec string, values [][]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, cells := splitRange(rangeSpec)
	start := strings.SplitN(cells, ":", 2)[0]
	startCol, startRow, err := parseCellRef(start)
	if err != nil {
		return err
	}

	grid := f.sheets[sheetID]
	for i, rowVals := range values {
		row := startRow - 1 + i
		for row >= len(grid) {
			grid = append(grid, nil)
		}
		for j, v := range rowVals {
			col := startCol + j
			for col >= len(grid[row]) {
				grid[row] = append(grid[row], "")
			}
			grid[row][col] = fmt.Sprint(v)
			f.writes = append(f.writes, writeOp{
				sheetID: sheetID,
				ref:     CellRef(col, row+1),
				value:   fmt.Sprint(v),
			})
		}
	}
	f.sheets[sheetID] = grid
	return nil
}

func (f *fakeClient) SheetTitles(_ context.Context, sheetID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.readErr[sheetID]; err != nil {
		return nil, err
	}
	if _, ok := f.sheets[sheetID]; !ok {
		return nil, fmt.Errorf("unknown sheet %s", sheetID)
	}
	return []string{"ASISTENCIA"}, nil
}
