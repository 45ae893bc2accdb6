package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"gestfin/ledger"
)

// Parse reads the first worksheet of an xlsx export into ImportRows. The
// header row maps columns by name, so column order doesn't matter. Fully
// empty rows are skipped; everything else is passed through for the ledger
// to validate.
func Parse(r io.Reader) ([]ledger.ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	cols, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	var out []ledger.ImportRow
	for i, cells := range rows[1:] {
		if emptyRow(cells) {
			continue
		}
		row, err := parseRow(cols, cells)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		// Keep the sheet position so batch errors still point at the right
		// row when blank rows were skipped.
		row.SourceRow = i + 2
		out = append(out, row)
	}
	return out, nil
}

// columns holds the cell index of each expected header, -1 when absent.
type columns struct {
	dueDate        int
	paymentDate    int
	typ            int
	description    int
	value          int
	bank           int
	chartOfAccount int
}

var headerNames = map[string]func(*columns, int){
	"due date":         func(c *columns, i int) { c.dueDate = i },
	"payment date":     func(c *columns, i int) { c.paymentDate = i },
	"type":             func(c *columns, i int) { c.typ = i },
	"description":      func(c *columns, i int) { c.description = i },
	"value":            func(c *columns, i int) { c.value = i },
	"bank":             func(c *columns, i int) { c.bank = i },
	"chart of account": func(c *columns, i int) { c.chartOfAccount = i },
}

func mapColumns(header []string) (columns, error) {
	cols := columns{
		dueDate: -1, paymentDate: -1, typ: -1, description: -1,
		value: -1, bank: -1, chartOfAccount: -1,
	}
	for i, name := range header {
		if set, ok := headerNames[strings.ToLower(strings.TrimSpace(name))]; ok {
			set(&cols, i)
		}
	}
	// Reported in sheet order so the message is stable run to run.
	required := []struct {
		name  string
		index int
	}{
		{"Due Date", cols.dueDate},
		{"Payment Date", cols.paymentDate},
		{"Type", cols.typ},
		{"Description", cols.description},
		{"Value", cols.value},
		{"Bank", cols.bank},
		{"Chart of Account", cols.chartOfAccount},
	}
	missing := []string{}
	for _, col := range required {
		if col.index == -1 {
			missing = append(missing, col.name)
		}
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func parseRow(cols columns, cells []string) (ledger.ImportRow, error) {
	row := ledger.ImportRow{
		Type:           cell(cells, cols.typ),
		Description:    cell(cells, cols.description),
		Bank:           cell(cells, cols.bank),
		ChartOfAccount: cell(cells, cols.chartOfAccount),
	}

	var err error
	row.DueDate, err = parseDate(cell(cells, cols.dueDate))
	if err != nil {
		return row, fmt.Errorf("due date: %w", err)
	}
	row.PaymentDate, err = parseDate(cell(cells, cols.paymentDate))
	if err != nil {
		return row, fmt.Errorf("payment date: %w", err)
	}

	if v := cell(cells, cols.value); v != "" {
		row.Value, err = parseValue(v)
		if err != nil {
			return row, fmt.Errorf("value: %w", err)
		}
	}
	return row, nil
}

func cell(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

func emptyRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2006-01-02 15:04:05",
	"01-02-06",
	"1/2/06 15:04",
}

// parseDate accepts the date formats excelize hands back for date cells as
// well as raw Excel serial numbers, and normalizes to YYYY-MM-DD.
func parseDate(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return "", fmt.Errorf("invalid date serial %q", s)
		}
		return t.Format("2006-01-02"), nil
	}
	return "", fmt.Errorf("unrecognized date %q", s)
}

// parseValue handles both dot and comma decimal separators; exports from
// the predecessor system use the latter.
func parseValue(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(s, " ", "")
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	return decimal.NewFromString(s)
}
