package models

import "github.com/shopspring/decimal"

type Transfer struct {
	ID          int64           `json:"id"`
	FromBankID  int64           `json:"fromBankId"`
	ToBankID    int64           `json:"toBankId"`
	Value       decimal.Decimal `json:"value"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	UserID      int64           `json:"userId"`
}
