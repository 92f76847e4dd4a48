package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"budgetplanner/internal/log"
	ports "budgetplanner/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client stores each table in its own tab of a single spreadsheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
}

var _ ports.RowStore = (*Client)(nil)

// Options configures the Sheets client. When both credential fields are
// empty GOOGLE_APPLICATION_CREDENTIALS is consulted.
type Options struct {
	SpreadsheetID   string
	CredentialsJSON string
	CredentialsFile string
}

func New(ctx context.Context, opts Options) (*Client, error) {
	spreadsheetID := strings.TrimSpace(opts.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	svc, err := newSheetsService(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context, opts Options) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(opts.CredentialsJSON)
	serviceAccountFile := strings.TrimSpace(opts.CredentialsFile)
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		slog.DebugContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		slog.DebugContext(ctx, "Reading credentials from file", "path", serviceAccountFile)
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.InfoContext(ctx, "Google Sheets service created")
	return service, nil
}

func (c *Client) GetAllRows(ctx context.Context, table string) ([]ports.Row, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := quoteSheet(table)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return ports.RowsFromValues(valuesToStrings(resp.Values)), nil
}

func (c *Client) AppendRow(ctx context.Context, table string, values []string) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	rng := quoteSheet(table) + "!A1"
	vr := &gsheet.ValueRange{Values: [][]any{toAny(values)}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", table, err)
	}
	return nil
}

func (c *Client) UpdateCell(ctx context.Context, table string, row, col int, value string) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if row < 2 || col < 1 {
		return fmt.Errorf("cell %d,%d out of range for table %q", row, col, table)
	}
	rng := cellRange(table, row, col)
	vr := &gsheet.ValueRange{Values: [][]any{{value}}}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

// EnsureHeader creates the tab when missing, writes the header into an empty
// tab and otherwise compares the first row with the expected header.
func (c *Client) EnsureHeader(ctx context.Context, table string, headers []string) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if err := c.ensureTab(ctx, table); err != nil {
		return err
	}
	rng := quoteSheet(table) + "!1:1"
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read %s: %w", rng, err)
	}
	if len(resp.Values) == 0 || isBlank(toStrings(resp.Values[0])) {
		slog.InfoContext(ctx, "Writing header row", log.FieldTable, table)
		vr := &gsheet.ValueRange{Values: [][]any{toAny(headers)}}
		_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, quoteSheet(table)+"!A1", vr).
			ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("write %s header: %w", table, err)
		}
		return nil
	}
	return ports.HeaderMismatch(table, headers, toStrings(resp.Values[0]))
}

func (c *Client) ensureTab(ctx context.Context, table string) error {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read spreadsheet: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == table {
			return nil
		}
	}
	slog.InfoContext(ctx, "Creating missing tab", log.FieldTable, table)
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: table}},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("create tab %s: %w", table, err)
	}
	return nil
}
