package sheets

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2/jwt"
	sheetsv4 "google.golang.org/api/sheets/v4"
	"google.golang.org/api/option"
)

// Client is the thin transport wrapper over a remote tabular document store.
// Reads are always bulk (one call per worksheet), never per-cell.
type Client interface {
	// ReadSheet reads the given A1 range (or a bare worksheet name for the
	// whole tab) as a grid of strings, empty cells as "".
	ReadSheet(ctx context.Context, sheetID, rangeSpec string) (Grid, error)
	// WriteRange writes a rectangular grid of values into the given A1 range.
	WriteRange(ctx context.Context, sheetID, rangeSpec string, values [][]interface{}) error
	// SheetTitles lists the worksheet tab titles, used by the connectivity probe.
	SheetTitles(ctx context.Context, sheetID string) ([]string, error)
}

// GoogleClient talks to the Google Sheets v4 API, authenticated once per
// process with a read/write scoped service account.
type GoogleClient struct {
	svc *sheetsv4.Service
}

// NewGoogleClient builds the client from service-account credentials. The
// private key arrives newline-escaped from the environment and is unescaped
// here.
func NewGoogleClient(ctx context.Context, email, privateKey string) (*GoogleClient, error) {
	if email == "" || privateKey == "" {
		return nil, fmt.Errorf("google sheets credentials not configured")
	}

	conf := &jwt.Config{
		Email:      email,
		PrivateKey: []byte(strings.ReplaceAll(privateKey, `\n`, "\n")),
		Scopes:     []string{sheetsv4.SpreadsheetsScope},
		TokenURL:   "https://oauth2.googleapis.com/token",
	}

	svc, err := sheetsv4.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &GoogleClient{svc: svc}, nil
}

// ReadSheet implements Client.
func (c *GoogleClient) ReadSheet(ctx context.Context, sheetID, rangeSpec string) (Grid, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(sheetID, rangeSpec).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s!%s: %w", sheetID, rangeSpec, err)
	}

	grid := make(Grid, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprintf("%v", v)
		}
		grid[i] = cells
	}
	return grid, nil
}

// WriteRange implements Client.
func (c *GoogleClient) WriteRange(ctx context.Context, sheetID, rangeSpec string, values [][]interface{}) error {
	body := &sheetsv4.ValueRange{Values: values}
	_, err := c.svc.Spreadsheets.Values.Update(sheetID, rangeSpec, body).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write %s!%s: %w", sheetID, rangeSpec, err)
	}
	return nil
}

// SheetTitles implements Client.
func (c *GoogleClient) SheetTitles(ctx context.Context, sheetID string) ([]string, error) {
	resp, err := c.svc.Spreadsheets.Get(sheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet %s: %w", sheetID, err)
	}
	titles := make([]string, 0, len(resp.Sheets))
	for _, s := range resp.Sheets {
		if s.Properties != nil {
			titles = append(titles, s.Properties.Title)
		}
	}
	return titles, nil
}
