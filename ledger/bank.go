package ledger

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"gestfin/models"
)

// Bank rows are written only through the ledger so current_balance has a
// single owner: handlers read banks but never mutate balances themselves.

// BankInput carries the fields a route handler submits for a bank create or
// update.
type BankInput struct {
	Name           string
	InitialBalance decimal.Decimal
	StartDate      string
}

func (in *BankInput) validate() error {
	if in.Name == "" {
		return errValidation("bank name is required")
	}
	if in.StartDate == "" {
		return errValidation("start date is required")
	}
	return nil
}

// CreateBank inserts a bank with current balance equal to its initial
// balance.
func (s *Service) CreateBank(ctx context.Context, userID int64, in BankInput) (*models.Bank, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	b := &models.Bank{
		Name:           in.Name,
		InitialBalance: in.InitialBalance,
		CurrentBalance: in.InitialBalance,
		StartDate:      in.StartDate,
		UserID:         userID,
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO banks (name, initial_balance, current_balance, start_date, user_id)
		VALUES (?, ?, ?, ?, ?)
	`, b.Name, b.InitialBalance, b.CurrentBalance, b.StartDate, b.UserID)
	if err != nil {
		return nil, errPersistence("inserting bank", err)
	}
	b.ID, err = res.LastInsertId()
	if err != nil {
		return nil, errPersistence("reading bank id", err)
	}
	return b, nil
}

// UpdateBank edits a bank's metadata. Changing the initial balance shifts
// the current balance by the same difference, keeping
// current == initial + sum of postings.
func (s *Service) UpdateBank(ctx context.Context, userID, id int64, in BankInput) error {
	if err := in.validate(); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var oldInitial decimal.Decimal
		err := tx.QueryRow(
			`SELECT initial_balance FROM banks WHERE id = ? AND user_id = ?`,
			id, userID,
		).Scan(&oldInitial)
		if err == sql.ErrNoRows {
			return errNotFound("bank not found")
		}
		if err != nil {
			return errPersistence("reading bank", err)
		}

		_, err = tx.Exec(`
			UPDATE banks
			SET name = ?, initial_balance = ?, start_date = ?,
			    current_balance = current_balance + ?
			WHERE id = ? AND user_id = ?
		`, in.Name, in.InitialBalance, in.StartDate, in.InitialBalance.Sub(oldInitial), id, userID)
		if err != nil {
			return errPersistence("updating bank", err)
		}
		return nil
	})
}

// DeleteBank removes a bank that has no postings. Deleting a bank with
// transactions or transfers attached would leave balances underivable, so
// it is refused.
func (s *Service) DeleteBank(ctx context.Context, userID, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var one int
		err := tx.QueryRow(`SELECT 1 FROM banks WHERE id = ? AND user_id = ?`, id, userID).Scan(&one)
		if err == sql.ErrNoRows {
			return errNotFound("bank not found")
		}
		if err != nil {
			return errPersistence("reading bank", err)
		}

		var refs int
		err = tx.QueryRow(`
			SELECT (SELECT COUNT(*) FROM transactions WHERE bank_id = ?)
			     + (SELECT COUNT(*) FROM transfers WHERE from_bank_id = ? OR to_bank_id = ?)
		`, id, id, id).Scan(&refs)
		if err != nil {
			return errPersistence("counting bank postings", err)
		}
		if refs > 0 {
			return errValidation("bank has transactions or transfers posted to it")
		}

		_, err = tx.Exec(`DELETE FROM banks WHERE id = ? AND user_id = ?`, id, userID)
		if err != nil {
			return errPersistence("deleting bank", err)
		}
		return nil
	})
}
