package models

type Category struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	DRERange    string `json:"DRE_range"`
	UserID      int64  `json:"userId"`
}
