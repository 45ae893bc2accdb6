package models

// ChartOfAccount is a classification bucket ("plan") transactions report
// against. It has no balance effect.
type ChartOfAccount struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	CategoryID  int64  `json:"categoryId"`
	UserID      int64  `json:"userId"`
}
