package ledger

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"gestfin/models"
)

// Service is the posting protocol: every operation that touches a bank
// balance goes through here, and each one runs as a single store transaction
// so the entity row and its balance effect commit or fail together.
type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// withTx runs fn inside one store transaction, rolling back on any error.
func (s *Service) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errPersistence("beginning transaction", err)
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return errPersistence("committing transaction", err)
	}
	return nil
}

// TransactionInput carries the fields a route handler submits for a
// transaction create or update.
type TransactionInput struct {
	DueDate          string
	PaymentDate      string
	Type             string
	Description      string
	Value            decimal.Decimal
	BankID           int64
	ChartOfAccountID int64
}

func (in *TransactionInput) validate() error {
	if in.DueDate == "" {
		return errValidation("due date is required")
	}
	if in.Type == "" {
		return errValidation("type is required")
	}
	if in.Description == "" {
		return errValidation("description is required")
	}
	if !in.Value.IsPositive() {
		return errValidation("value must be a positive number")
	}
	if in.BankID == 0 {
		return errValidation("bank id is required")
	}
	if in.ChartOfAccountID == 0 {
		return errValidation("chart of account id is required")
	}
	return nil
}

// CreateTransaction inserts a transaction row and applies its balance effect
// to the owning bank as one atomic unit.
func (s *Service) CreateTransaction(ctx context.Context, userID int64, in TransactionInput) (*models.Transaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	typ, err := NormalizeType(in.Type)
	if err != nil {
		return nil, err
	}

	t := &models.Transaction{
		DueDate:          in.DueDate,
		PaymentDate:      in.PaymentDate,
		Type:             typ,
		Description:      in.Description,
		Value:            in.Value,
		UserID:           userID,
		BankID:           in.BankID,
		ChartOfAccountID: in.ChartOfAccountID,
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if err := chartOfAccountExists(tx, userID, in.ChartOfAccountID); err != nil {
			return err
		}
		// Checked before the insert so an absent bank reports not found
		// instead of tripping the foreign key.
		if err := bankExists(tx, userID, in.BankID); err != nil {
			return err
		}

		res, err := tx.Exec(`
			INSERT INTO transactions (due_date, payment_date, type, description, value, user_id, bank_id, chart_of_account_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, t.DueDate, t.PaymentDate, t.Type, t.Description, t.Value, t.UserID, t.BankID, t.ChartOfAccountID)
		if err != nil {
			return errPersistence("inserting transaction", err)
		}
		t.ID, err = res.LastInsertId()
		if err != nil {
			return errPersistence("reading transaction id", err)
		}

		ev, err := transactionPosted(t.BankID, t.Type, t.Value)
		if err != nil {
			return err
		}
		return applyEvent(tx, userID, ev)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTransaction replaces a transaction's fields, reversing the old
// balance effect on the old bank and applying the new effect on the new
// bank. Both banks and the row update commit as one unit.
func (s *Service) UpdateTransaction(ctx context.Context, userID, id int64, in TransactionInput) (*models.Transaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.PaymentDate == "" {
		return nil, errValidation("payment date is required")
	}
	typ, err := NormalizeType(in.Type)
	if err != nil {
		return nil, err
	}

	t := &models.Transaction{
		ID:               id,
		DueDate:          in.DueDate,
		PaymentDate:      in.PaymentDate,
		Type:             typ,
		Description:      in.Description,
		Value:            in.Value,
		UserID:           userID,
		BankID:           in.BankID,
		ChartOfAccountID: in.ChartOfAccountID,
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		old, err := getTransaction(tx, userID, id)
		if err != nil {
			return err
		}
		if err := chartOfAccountExists(tx, userID, in.ChartOfAccountID); err != nil {
			return err
		}
		if err := bankExists(tx, userID, in.BankID); err != nil {
			return err
		}

		_, err = tx.Exec(`
			UPDATE transactions
			SET due_date = ?, payment_date = ?, type = ?, description = ?, value = ?, bank_id = ?, chart_of_account_id = ?
			WHERE id = ? AND user_id = ?
		`, t.DueDate, t.PaymentDate, t.Type, t.Description, t.Value, t.BankID, t.ChartOfAccountID, id, userID)
		if err != nil {
			return errPersistence("updating transaction", err)
		}

		// The reversal targets the bank the transaction used to be posted
		// to, which may differ from the new one.
		rev, err := transactionReversed(old.BankID, old.Type, old.Value)
		if err != nil {
			return err
		}
		if err := applyEvent(tx, userID, rev); err != nil {
			return err
		}
		ev, err := transactionPosted(t.BankID, t.Type, t.Value)
		if err != nil {
			return err
		}
		return applyEvent(tx, userID, ev)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTransaction removes the row and reverses its balance effect
// atomically.
func (s *Service) DeleteTransaction(ctx context.Context, userID, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		old, err := getTransaction(tx, userID, id)
		if err != nil {
			return err
		}

		_, err = tx.Exec(`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
		if err != nil {
			return errPersistence("deleting transaction", err)
		}

		rev, err := transactionReversed(old.BankID, old.Type, old.Value)
		if err != nil {
			return err
		}
		return applyEvent(tx, userID, rev)
	})
}

func getTransaction(tx *sql.Tx, userID, id int64) (*models.Transaction, error) {
	var t models.Transaction
	var paymentDate sql.NullString
	err := tx.QueryRow(`
		SELECT id, due_date, payment_date, type, description, value, user_id, bank_id, chart_of_account_id
		FROM transactions WHERE id = ? AND user_id = ?
	`, id, userID).Scan(
		&t.ID, &t.DueDate, &paymentDate, &t.Type, &t.Description, &t.Value,
		&t.UserID, &t.BankID, &t.ChartOfAccountID,
	)
	if err == sql.ErrNoRows {
		return nil, errNotFound("transaction not found")
	}
	if err != nil {
		return nil, errPersistence("reading transaction", err)
	}
	t.PaymentDate = paymentDate.String
	return &t, nil
}

func bankExists(tx *sql.Tx, userID, id int64) error {
	var one int
	err := tx.QueryRow(`SELECT 1 FROM banks WHERE id = ? AND user_id = ?`, id, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return errNotFound("bank %d not found", id)
	}
	if err != nil {
		return errPersistence("reading bank", err)
	}
	return nil
}

func chartOfAccountExists(tx *sql.Tx, userID, id int64) error {
	var one int
	err := tx.QueryRow(`SELECT 1 FROM chart_of_accounts WHERE id = ? AND user_id = ?`, id, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return errNotFound("chart of account %d not found", id)
	}
	if err != nil {
		return errPersistence("reading chart of account", err)
	}
	return nil
}
