package tablestore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsConfig holds what the Google Sheets backend needs to open one
// worksheet with a service-account credential.
type SheetsConfig struct {
	SpreadsheetID   string
	WorksheetName   string
	CredentialsFile string // path to a service-account JSON key
	CredentialsJSON string // inline key, takes precedence when set
}

// valueInputRaw stores cell values verbatim. The UI-style parse mode would
// coerce numeric-looking strings (a contact number's leading zero) and
// re-render timestamps per sheet locale, so written cells must read back
// byte-for-byte.
const valueInputRaw = "RAW"

// SheetsTable implements Table against one worksheet of a Google spreadsheet.
type SheetsTable struct {
	svc           *sheets.Service
	spreadsheetID string
	worksheet     string
}

// NewSheetsTable authenticates with the service-account credential and
// verifies the worksheet exists. A missing credential, a credential the
// API rejects, or an absent spreadsheet/worksheet are all startup failures.
func NewSheetsTable(ctx context.Context, cfg SheetsConfig) (*SheetsTable, error) {
	keyJSON := []byte(cfg.CredentialsJSON)
	if len(keyJSON) == 0 {
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("%w: read credentials %s: %v", ErrUnauthorized, cfg.CredentialsFile, err)
		}
		keyJSON = data
	}

	jwtCfg, err := google.JWTConfigFromJSON(keyJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("%w: parse service account key: %v", ErrUnauthorized, err)
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(jwtCfg.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}

	t := &SheetsTable{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		worksheet:     cfg.WorksheetName,
	}

	// Confirm the worksheet is reachable before the server starts serving.
	meta, err := svc.Spreadsheets.Get(cfg.SpreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, classify(err)
	}
	for _, s := range meta.Sheets {
		if s.Properties != nil && s.Properties.Title == cfg.WorksheetName {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: worksheet %q not in spreadsheet %s", ErrNotFound, cfg.WorksheetName, cfg.SpreadsheetID)
}

func (t *SheetsTable) Rows(ctx context.Context) ([][]string, error) {
	resp, err := t.svc.Spreadsheets.Values.Get(t.spreadsheetID, t.worksheet).Context(ctx).Do()
	if err != nil {
		return nil, classify(err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (t *SheetsTable) Append(ctx context.Context, row []string) error {
	vals := make([]interface{}, len(row))
	for i, c := range row {
		vals[i] = c
	}
	_, err := t.svc.Spreadsheets.Values.
		Append(t.spreadsheetID, t.worksheet, &sheets.ValueRange{Values: [][]interface{}{vals}}).
		ValueInputOption(valueInputRaw).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return writeErr(err)
	}
	return nil
}

func (t *SheetsTable) UpdateCell(ctx context.Context, rowIdx, colIdx int, value string) error {
	if rowIdx < 1 || colIdx < 1 {
		return fmt.Errorf("%w: cell (%d,%d) out of range", ErrWrite, rowIdx, colIdx)
	}
	rng := fmt.Sprintf("%s!%s%d", t.worksheet, columnLetter(colIdx), rowIdx)
	_, err := t.svc.Spreadsheets.Values.
		Update(t.spreadsheetID, rng, &sheets.ValueRange{Values: [][]interface{}{{value}}}).
		ValueInputOption(valueInputRaw).
		Context(ctx).Do()
	if err != nil {
		return writeErr(err)
	}
	return nil
}

// columnLetter converts a 1-based column index to its A1 letter form
// (1 -> A, 26 -> Z, 27 -> AA).
func columnLetter(col int) string {
	var s []byte
	for col > 0 {
		col--
		s = append([]byte{byte('A' + col%26)}, s...)
		col /= 26
	}
	return string(s)
}

func classify(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
	}
	return err
}

func writeErr(err error) error {
	classified := classify(err)
	if errors.Is(classified, ErrNotFound) || errors.Is(classified, ErrUnauthorized) {
		return classified
	}
	return fmt.Errorf("%w: %v", ErrWrite, err)
}
