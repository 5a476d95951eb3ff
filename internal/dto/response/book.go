package response

import (
	"time"

	"library-lending/internal/data/entity"

	"github.com/shopspring/decimal"
)

type BookResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Author      string           `json:"author"`
	Cover       entity.CoverType `json:"cover"`
	Inventory   int              `json:"inventory"`
	DailyFee    decimal.Decimal  `json:"daily_fee"`
	IsAvailable bool             `json:"is_available"`
	CreatedAt   time.Time        `json:"created_at"`
}

func BookToResponse(book *entity.Book) BookResponse {
	return BookResponse{
		ID:          book.ID.String(),
		Title:       book.Title,
		Author:      book.Author,
		Cover:       book.Cover,
		Inventory:   book.Inventory,
		DailyFee:    book.DailyFee,
		IsAvailable: book.IsAvailable(),
		CreatedAt:   book.CreatedAt,
	}
}
