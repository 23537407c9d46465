package sheets

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

// WorkbookClient implements Client over local .xlsx workbooks. The sheetID is
// the workbook file path. Used for offline deployments and integration tests
// where the remote spreadsheet API is unavailable.
type WorkbookClient struct {
	mu sync.Mutex
}

// NewWorkbookClient creates the local workbook backend.
func NewWorkbookClient() *WorkbookClient {
	return &WorkbookClient{}
}

// splitRange separates "SHEET!A1:B2" into worksheet name and cell range.
// A bare worksheet name means the whole tab.
func splitRange(rangeSpec string) (worksheet, cells string) {
	if i := strings.IndexByte(rangeSpec, '!'); i >= 0 {
		return rangeSpec[:i], rangeSpec[i+1:]
	}
	return rangeSpec, ""
}

// ReadSheet implements Client.
func (c *WorkbookClient) ReadSheet(_ context.Context, sheetID, rangeSpec string) (Grid, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := excelize.OpenFile(sheetID)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", sheetID, err)
	}
	defer f.Close()

	worksheet, cells := splitRange(rangeSpec)
	if cells == "" {
		rows, err := f.GetRows(worksheet)
		if err != nil {
			return nil, fmt.Errorf("read worksheet %s: %w", worksheet, err)
		}
		return Grid(rows), nil
	}

	parts := strings.SplitN(cells, ":", 2)
	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return nil, fmt.Errorf("parse range %s: %w", cells, err)
	}
	endCol, endRow := startCol, startRow
	if len(parts) == 2 {
		endCol, endRow, err = excelize.CellNameToCoordinates(parts[1])
		if err != nil {
			return nil, fmt.Errorf("parse range %s: %w", cells, err)
		}
	}

	grid := make(Grid, 0, endRow-startRow+1)
	for row := startRow; row <= endRow; row++ {
		line := make([]string, 0, endCol-startCol+1)
		for col := startCol; col <= endCol; col++ {
			cell, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				return nil, err
			}
			v, err := f.GetCellValue(worksheet, cell)
			if err != nil {
				return nil, fmt.Errorf("read cell %s: %w", cell, err)
			}
			line = append(line, v)
		}
		grid = append(grid, line)
	}
	return grid, nil
}

// WriteRange implements Client.
func (c *WorkbookClient) WriteRange(_ context.Context, sheetID, rangeSpec string, values [][]interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := excelize.OpenFile(sheetID)
	if err != nil {
		return fmt.Errorf("open workbook %s: %w", sheetID, err)
	}
	defer f.Close()

	worksheet, cells := splitRange(rangeSpec)
	start := strings.SplitN(cells, ":", 2)[0]
	startCol, startRow, err := excelize.CellNameToCoordinates(start)
	if err != nil {
		return fmt.Errorf("parse range %s: %w", cells, err)
	}

	for i, row := range values {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(startCol+j, startRow+i)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(worksheet, cell, v); err != nil {
				return fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
	}

	if err := f.Save(); err != nil {
		return fmt.Errorf("save workbook %s: %w", sheetID, err)
	}
	return nil
}

// SheetTitles implements Client.
func (c *WorkbookClient) SheetTitles(_ context.Context, sheetID string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := excelize.OpenFile(sheetID)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", sheetID, err)
	}
	defer f.Close()

	return f.GetSheetList(), nil
}
