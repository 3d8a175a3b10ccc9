package gsheets

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/tokano3/warikanbot/internal/ledger"
)

const worksheetTitle = "Meal Costs"

var headerRow = []interface{}{
	"Date",
	"Purchaser Name",
	"Total Bill",
	"Participants",
	"Individual Share",
}

// Ledger appends meal records to a Google Sheets worksheet, creating the
// worksheet with a header row on first use.
type Ledger struct {
	svc           *sheets.Service
	spreadsheetID string
}

// New authenticates with a service account JSON file and opens a client for
// the given spreadsheet.
func New(ctx context.Context, credentialsPath, spreadsheetID string) (*Ledger, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	cfg, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithTokenSource(cfg.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	return &Ledger{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (l *Ledger) Append(ctx context.Context, rec ledger.Record) error {
	if err := l.ensureWorksheet(ctx); err != nil {
		return err
	}

	values := &sheets.ValueRange{Values: [][]interface{}{buildRow(rec)}}
	_, err := l.svc.Spreadsheets.Values.
		Append(l.spreadsheetID, worksheetTitle+"!A1", values).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	return nil
}

// ensureWorksheet creates the worksheet with its header row if it does not
// exist yet.
func (l *Ledger) ensureWorksheet(ctx context.Context) error {
	ss, err := l.svc.Spreadsheets.Get(l.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == worksheetTitle {
			return nil
		}
	}

	_, err = l.svc.Spreadsheets.BatchUpdate(l.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: worksheetTitle,
					GridProperties: &sheets.GridProperties{
						RowCount:    1000,
						ColumnCount: 20,
					},
				},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to create worksheet: %w", err)
	}

	header := &sheets.ValueRange{Values: [][]interface{}{headerRow}}
	_, err = l.svc.Spreadsheets.Values.
		Append(l.spreadsheetID, worksheetTitle+"!A1", header).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	return nil
}

func buildRow(rec ledger.Record) []interface{} {
	return []interface{}{
		rec.Date.Format("2006-01-02"),
		rec.Purchaser,
		rec.TotalBill,
		strings.Join(rec.Participants, ", "),
		rec.IndividualShare,
	}
}
