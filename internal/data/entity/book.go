package entity

import (
	"github.com/shopspring/decimal"
)

type CoverType string

const (
	CoverHard CoverType = "HARD"
	CoverSoft CoverType = "SOFT"
)

type Book struct {
	Base
	Title     string          `db:"title"`
	Author    string          `db:"author"`
	Cover     CoverType       `db:"cover"`
	Inventory int             `db:"inventory"`
	DailyFee  decimal.Decimal `db:"daily_fee"`
}

// IsAvailable derives availability from the copy count; it is never stored.
func (b *Book) IsAvailable() bool {
	return b.Inventory > 0
}
