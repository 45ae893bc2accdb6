package ledger

import (
	"database/sql"

	"github.com/shopspring/decimal"

	"gestfin/models"
)

// A posting event is the single abstraction every balance change goes
// through: create, update, delete and import all reduce to applying one or
// more events, so the increment/decrement rules live in exactly one place.

type eventKind string

const (
	transactionPostedEvent   eventKind = "transaction_posted"
	transactionReversedEvent eventKind = "transaction_reversed"
	transferPostedEvent      eventKind = "transfer_posted"
	transferReversedEvent    eventKind = "transfer_reversed"
)

// posting is one signed balance delta against one bank account.
type posting struct {
	bankID int64
	delta  decimal.Decimal
}

type event struct {
	kind     eventKind
	postings []posting
}

// typeAliases maps accepted input spellings to the stored transaction type.
// The Portuguese spellings come from spreadsheet exports of the predecessor
// system, including its "Saida" (unaccented) variant.
var typeAliases = map[string]string{
	models.TypeIncome:  models.TypeIncome,
	models.TypeExpense: models.TypeExpense,
	"Entrada":          models.TypeIncome,
	"Saída":            models.TypeExpense,
	"Saida":            models.TypeExpense,
}

// NormalizeType maps an input type spelling to the stored form, or returns
// an invalid-type error.
func NormalizeType(typ string) (string, error) {
	normalized, ok := typeAliases[typ]
	if !ok {
		return "", errInvalidType(typ)
	}
	return normalized, nil
}

// signedAmount derives the balance delta of a transaction: Income credits
// the account, Expense debits it.
func signedAmount(typ string, value decimal.Decimal) (decimal.Decimal, error) {
	switch typ {
	case models.TypeIncome:
		return value, nil
	case models.TypeExpense:
		return value.Neg(), nil
	}
	return decimal.Decimal{}, errInvalidType(typ)
}

func transactionPosted(bankID int64, typ string, value decimal.Decimal) (event, error) {
	delta, err := signedAmount(typ, value)
	if err != nil {
		return event{}, err
	}
	return event{
		kind:     transactionPostedEvent,
		postings: []posting{{bankID: bankID, delta: delta}},
	}, nil
}

func transactionReversed(bankID int64, typ string, value decimal.Decimal) (event, error) {
	delta, err := signedAmount(typ, value)
	if err != nil {
		return event{}, err
	}
	return event{
		kind:     transactionReversedEvent,
		postings: []posting{{bankID: bankID, delta: delta.Neg()}},
	}, nil
}

func transferPosted(fromBankID, toBankID int64, value decimal.Decimal) event {
	return event{
		kind: transferPostedEvent,
		postings: []posting{
			{bankID: fromBankID, delta: value.Neg()},
			{bankID: toBankID, delta: value},
		},
	}
}

func transferReversed(fromBankID, toBankID int64, value decimal.Decimal) event {
	return event{
		kind: transferReversedEvent,
		postings: []posting{
			{bankID: fromBankID, delta: value},
			{bankID: toBankID, delta: value.Neg()},
		},
	}
}

// applyEvent applies every posting of ev to its bank row inside tx. The
// read and write pair is safe because the enclosing transaction holds the
// store's write lock for its whole duration.
func applyEvent(tx *sql.Tx, userID int64, ev event) error {
	for _, p := range ev.postings {
		if _, err := applyDelta(tx, userID, p.bankID, p.delta); err != nil {
			return err
		}
	}
	return nil
}

// applyDelta adds delta to one owner-scoped bank balance and returns the new
// balance. A bank that does not exist and a bank owned by someone else both
// report not found.
func applyDelta(tx *sql.Tx, userID, bankID int64, delta decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.QueryRow(
		`SELECT current_balance FROM banks WHERE id = ? AND user_id = ?`,
		bankID, userID,
	).Scan(&balance)
	if err == sql.ErrNoRows {
		return decimal.Decimal{}, errNotFound("bank %d not found", bankID)
	}
	if err != nil {
		return decimal.Decimal{}, errPersistence("reading bank balance", err)
	}

	newBalance := balance.Add(delta)
	_, err = tx.Exec(
		`UPDATE banks SET current_balance = ? WHERE id = ? AND user_id = ?`,
		newBalance, bankID, userID,
	)
	if err != nil {
		return decimal.Decimal{}, errPersistence("updating bank balance", err)
	}
	return newBalance, nil
}
