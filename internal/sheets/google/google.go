package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"nutrilog/internal/core"
	ports "nutrilog/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// DefaultSheetName is the base tab name; the year of each date is prefixed.
const DefaultSheetName = "Totals"

var header = []any{"Date", "Protein", "Fat", "Carbs", "Kcal"}

type Config struct {
	SpreadsheetID string
	// SheetName is the base tab name without year (e.g. "Totals").
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetBase     string
}

// Ensure interface conformance
var _ ports.TotalsWriter = (*Client)(nil)

// New creates a Sheets client authenticated with a service account. Extra
// client options replace the credential lookup when given.
func New(ctx context.Context, cfg Config, opts ...goption.ClientOption) (*Client, error) {
	spreadsheetID := strings.TrimSpace(cfg.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	sheetBase := strings.TrimSpace(cfg.SheetName)
	if sheetBase == "" {
		sheetBase = DefaultSheetName
	}

	if len(opts) == 0 {
		credentialsJSON, err := loadCredentials(ctx, cfg)
		if err != nil {
			return nil, err
		}
		opts = []goption.ClientOption{
			goption.WithCredentialsJSON(credentialsJSON),
			goption.WithScopes(gsheet.SpreadsheetsScope),
		}
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created", "sheet", sheetBase)

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetBase:     sheetBase,
	}, nil
}

// loadCredentials prefers inline JSON over a file path, then falls back to
// GOOGLE_APPLICATION_CREDENTIALS.
func loadCredentials(ctx context.Context, cfg Config) ([]byte, error) {
	inline := strings.TrimSpace(cfg.CredentialsJSON)
	file := strings.TrimSpace(cfg.CredentialsFile)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case inline != "":
		slog.InfoContext(ctx, "Using inline service account credentials")
		return []byte(inline), nil
	case file != "":
		slog.InfoContext(ctx, "Reading service account credentials", "path", file)
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// UpsertDayTotals overwrites the row of date in the year's tab, or appends
// one when the date is not there yet. Values are written RAW so the date
// cell keeps its YYYY-MM-DD text and can be matched on the next upsert.
func (c *Client) UpsertDayTotals(ctx context.Context, date core.Date, totals core.Totals) (string, error) {
	if err := date.Validate(); err != nil {
		return "", err
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	sheet := yearPrefixedName(c.sheetBase, date.Year())
	rng := fmt.Sprintf("%s!A:A", sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("read dates from %s: %w", sheet, err)
	}

	values := [][]any{totalsRow(date, totals)}
	if len(resp.Values) == 0 {
		values = append([][]any{header}, values...)
	}

	if row := findDateRow(resp.Values, date.String()); row > 0 {
		target := fmt.Sprintf("%s!A%d:E%d", sheet, row, row)
		_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, target, &gsheet.ValueRange{Values: values}).
			ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("update %s: %w", target, err)
		}
		return target, nil
	}

	appended, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, fmt.Sprintf("%s!A:E", sheet), &gsheet.ValueRange{Values: values}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to %s: %w", sheet, err)
	}
	if appended.Updates != nil && appended.Updates.UpdatedRange != "" {
		return appended.Updates.UpdatedRange, nil
	}
	return sheet, nil
}

// findDateRow returns the 1-based row whose first cell is date, or 0.
func findDateRow(rows [][]any, date string) int {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[0])) == date {
			return i + 1
		}
	}
	return 0
}

func totalsRow(date core.Date, t core.Totals) []any {
	return []any{date.String(), round1(t.Protein), round1(t.Fat), round1(t.Carbs), round1(t.Kcal)}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
