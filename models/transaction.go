package models

import "github.com/shopspring/decimal"

// Transaction types. Spreadsheet exports from the predecessor system use
// the Portuguese spellings; they are normalized on input (see ledger).
const (
	TypeIncome  = "Income"
	TypeExpense = "Expense"
)

type Transaction struct {
	ID               int64           `json:"id"`
	DueDate          string          `json:"dueDate"`
	PaymentDate      string          `json:"paymentDate,omitempty"`
	Type             string          `json:"type"`
	Description      string          `json:"description"`
	Value            decimal.Decimal `json:"value"`
	UserID           int64           `json:"userId"`
	BankID           int64           `json:"bankId"`
	ChartOfAccountID int64           `json:"chartOfAccountId"`
}
