package models

import "github.com/shopspring/decimal"

type Bank struct {
	ID             int64           `json:"id"`
	Name           string          `json:"nameBank"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	StartDate      string          `json:"startDate"`
	UserID         int64           `json:"userId"`
}
