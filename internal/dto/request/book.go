package request

import (
	"github.com/shopspring/decimal"
)

type CreateBookRequest struct {
	Title     string          `json:"title" validate:"required,max=255"`
	Author    string          `json:"author" validate:"required,max=255"`
	Cover     string          `json:"cover" validate:"required,oneof=HARD SOFT"`
	Inventory int             `json:"inventory" validate:"min=0"`
	DailyFee  decimal.Decimal `json:"daily_fee" validate:"required"`
}

type UpdateBookRequest struct {
	Title     *string          `json:"title,omitempty" validate:"omitempty,max=255"`
	Author    *string          `json:"author,omitempty" validate:"omitempty,max=255"`
	Cover     *string          `json:"cover,omitempty" validate:"omitempty,oneof=HARD SOFT"`
	Inventory *int             `json:"inventory,omitempty" validate:"omitempty,min=0"`
	DailyFee  *decimal.Decimal `json:"daily_fee,omitempty"`
}
