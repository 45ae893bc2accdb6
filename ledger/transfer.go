package ledger

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"gestfin/models"
)

// TransferInput carries the fields a route handler submits for a transfer
// create or update.
type TransferInput struct {
	FromBankID  int64
	ToBankID    int64
	Value       decimal.Decimal
	Date        string
	Description string
}

func (in *TransferInput) validate() error {
	if in.FromBankID == 0 || in.ToBankID == 0 {
		return errValidation("from and to bank ids are required")
	}
	if in.FromBankID == in.ToBankID {
		return errValidation("from and to banks must be different")
	}
	if !in.Value.IsPositive() {
		return errValidation("value must be a positive number")
	}
	if in.Date == "" {
		return errValidation("date is required")
	}
	return nil
}

// CreateTransfer inserts the transfer row and moves value between the two
// banks. Both sides commit with the row or not at all; the debit is never
// applied without the credit.
func (s *Service) CreateTransfer(ctx context.Context, userID int64, in TransferInput) (*models.Transfer, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.Description == "" {
		return nil, errValidation("description is required")
	}

	tr := &models.Transfer{
		FromBankID:  in.FromBankID,
		ToBankID:    in.ToBankID,
		Value:       in.Value,
		Date:        in.Date,
		Description: in.Description,
		UserID:      userID,
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		// Checked before the insert so an absent bank on either side reports
		// not found instead of tripping the foreign key.
		if err := bankExists(tx, userID, tr.FromBankID); err != nil {
			return err
		}
		if err := bankExists(tx, userID, tr.ToBankID); err != nil {
			return err
		}

		res, err := tx.Exec(`
			INSERT INTO transfers (from_bank_id, to_bank_id, value, date, description, user_id)
			VALUES (?, ?, ?, ?, ?, ?)
		`, tr.FromBankID, tr.ToBankID, tr.Value, tr.Date, tr.Description, tr.UserID)
		if err != nil {
			return errPersistence("inserting transfer", err)
		}
		tr.ID, err = res.LastInsertId()
		if err != nil {
			return errPersistence("reading transfer id", err)
		}

		return applyEvent(tx, userID, transferPosted(tr.FromBankID, tr.ToBankID, tr.Value))
	})
	if err != nil {
		return nil, err
	}
	return tr, nil
}

// UpdateTransfer reverses the old transfer's effect on its old from/to
// banks, updates the row, and applies the new effect on the new from/to
// banks. The old and new bank pairs may overlap or differ entirely; the
// reversal and application sets are computed independently and the deltas
// simply accumulate.
func (s *Service) UpdateTransfer(ctx context.Context, userID, id int64, in TransferInput) (*models.Transfer, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	tr := &models.Transfer{
		ID:          id,
		FromBankID:  in.FromBankID,
		ToBankID:    in.ToBankID,
		Value:       in.Value,
		Date:        in.Date,
		Description: in.Description,
		UserID:      userID,
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		old, err := getTransfer(tx, userID, id)
		if err != nil {
			return err
		}
		if err := bankExists(tx, userID, tr.FromBankID); err != nil {
			return err
		}
		if err := bankExists(tx, userID, tr.ToBankID); err != nil {
			return err
		}

		if err := applyEvent(tx, userID, transferReversed(old.FromBankID, old.ToBankID, old.Value)); err != nil {
			return err
		}

		_, err = tx.Exec(`
			UPDATE transfers
			SET from_bank_id = ?, to_bank_id = ?, value = ?, date = ?, description = ?
			WHERE id = ? AND user_id = ?
		`, tr.FromBankID, tr.ToBankID, tr.Value, tr.Date, tr.Description, id, userID)
		if err != nil {
			return errPersistence("updating transfer", err)
		}

		return applyEvent(tx, userID, transferPosted(tr.FromBankID, tr.ToBankID, tr.Value))
	})
	if err != nil {
		return nil, err
	}
	return tr, nil
}

// DeleteTransfer reverses the transfer's effect and removes the row
// atomically.
func (s *Service) DeleteTransfer(ctx context.Context, userID, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		old, err := getTransfer(tx, userID, id)
		if err != nil {
			return err
		}

		if err := applyEvent(tx, userID, transferReversed(old.FromBankID, old.ToBankID, old.Value)); err != nil {
			return err
		}

		_, err = tx.Exec(`DELETE FROM transfers WHERE id = ? AND user_id = ?`, id, userID)
		if err != nil {
			return errPersistence("deleting transfer", err)
		}
		return nil
	})
}

func getTransfer(tx *sql.Tx, userID, id int64) (*models.Transfer, error) {
	var tr models.Transfer
	err := tx.QueryRow(`
		SELECT id, from_bank_id, to_bank_id, value, date, description, user_id
		FROM transfers WHERE id = ? AND user_id = ?
	`, id, userID).Scan(
		&tr.ID, &tr.FromBankID, &tr.ToBankID, &tr.Value, &tr.Date, &tr.Description, &tr.UserID,
	)
	if err == sql.ErrNoRows {
		return nil, errNotFound("transfer not found")
	}
	if err != nil {
		return nil, errPersistence("reading transfer", err)
	}
	return &tr, nil
}
