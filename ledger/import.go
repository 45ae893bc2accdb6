package ledger

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
)

// ImportRow is one data row of a spreadsheet export: the transaction fields
// with bank and chart-of-account given by name instead of id. SourceRow is
// the row's 1-based position in the sheet (header counted), so errors point
// at the right row even when the parser skipped blank rows before it.
type ImportRow struct {
	SourceRow      int
	DueDate        string
	PaymentDate    string
	Type           string
	Description    string
	Value          decimal.Decimal
	Bank           string
	ChartOfAccount string
}

// Fallback position for rows without a SourceRow: 1-based with the header
// row counted, so data row i lives at spreadsheet row i+2.
const headerRowOffset = 2

func (row *ImportRow) position(i int) int {
	if row.SourceRow > 0 {
		return row.SourceRow
	}
	return i + headerRowOffset
}

// ImportTransactions posts every row as one batch: a single store
// transaction covers all inserts and balance updates, and the first bad row
// aborts the whole batch with its spreadsheet position. Rows post in order,
// so later rows see the balance effects of earlier ones.
func (s *Service) ImportTransactions(ctx context.Context, userID int64, rows []ImportRow) (int, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for i, row := range rows {
			if err := importRow(tx, userID, row); err != nil {
				return errBatchRow(row.position(i), err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (row *ImportRow) validate() error {
	if row.DueDate == "" {
		return errValidation("due date is required")
	}
	if row.PaymentDate == "" {
		return errValidation("payment date is required")
	}
	if row.Type == "" {
		return errValidation("type is required")
	}
	if row.Description == "" {
		return errValidation("description is required")
	}
	if !row.Value.IsPositive() {
		return errValidation("value must be a positive number")
	}
	if row.Bank == "" {
		return errValidation("bank is required")
	}
	if row.ChartOfAccount == "" {
		return errValidation("chart of account is required")
	}
	return nil
}

func importRow(tx *sql.Tx, userID int64, row ImportRow) error {
	if err := row.validate(); err != nil {
		return err
	}
	typ, err := NormalizeType(row.Type)
	if err != nil {
		return err
	}

	bankID, err := bankIDByName(tx, userID, row.Bank)
	if err != nil {
		return err
	}
	chartID, err := chartOfAccountIDByDescription(tx, userID, row.ChartOfAccount)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO transactions (due_date, payment_date, type, description, value, user_id, bank_id, chart_of_account_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, row.DueDate, row.PaymentDate, typ, row.Description, row.Value, userID, bankID, chartID)
	if err != nil {
		return errPersistence("inserting transaction", err)
	}

	ev, err := transactionPosted(bankID, typ, row.Value)
	if err != nil {
		return err
	}
	return applyEvent(tx, userID, ev)
}

func bankIDByName(tx *sql.Tx, userID int64, name string) (int64, error) {
	var id int64
	err := tx.QueryRow(`SELECT id FROM banks WHERE name = ? AND user_id = ?`, name, userID).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, errNotFound("bank %q not found", name)
	}
	if err != nil {
		return 0, errPersistence("resolving bank", err)
	}
	return id, nil
}

func chartOfAccountIDByDescription(tx *sql.Tx, userID int64, description string) (int64, error) {
	var id int64
	err := tx.QueryRow(`SELECT id FROM chart_of_accounts WHERE description = ? AND user_id = ?`, description, userID).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, errNotFound("chart of account %q not found", description)
	}
	if err != nil {
		return 0, errPersistence("resolving chart of account", err)
	}
	return id, nil
}
