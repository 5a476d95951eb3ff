package response

import (
	"library-lending/internal/data/entity"
	"library-lending/pkg/utils"
)

type BorrowingResponse struct {
	ID                 string  `json:"id"`
	BorrowDate         string  `json:"borrow_date"`
	ExpectedReturnDate string  `json:"expected_return_date"`
	ActualReturnDate   *string `json:"actual_return_date"`
	IsActive           bool    `json:"is_active"`
	BookID             string  `json:"book_id"`
	BookTitle          string  `json:"book_title,omitempty"`
	UserID             string  `json:"user_id"`
}

type BorrowingDetailResponse struct {
	BorrowingResponse
	Book     *BookResponse     `json:"book,omitempty"`
	Payments []PaymentResponse `json:"payments,omitempty"`
}

// ReturnBorrowingResponse reports the outcome of a return. FineSessionURL is
// set only when the loan came back overdue.
type ReturnBorrowingResponse struct {
	Message        string  `json:"message"`
	FineSessionURL *string `json:"fine_session_url,omitempty"`
}

func BorrowingToResponse(borrowing *entity.Borrowing, bookTitle string) BorrowingResponse {
	resp := BorrowingResponse{
		ID:                 borrowing.ID.String(),
		BorrowDate:         borrowing.BorrowDate.Format(utils.DateLayout),
		ExpectedReturnDate: borrowing.ExpectedReturnDate.Format(utils.DateLayout),
		IsActive:           borrowing.IsActive(),
		BookID:             borrowing.BookID.String(),
		BookTitle:          bookTitle,
		UserID:             borrowing.UserID.String(),
	}

	if borrowing.ActualReturnDate != nil {
		returned := borrowing.ActualReturnDate.Format(utils.DateLayout)
		resp.ActualReturnDate = &returned
	}

	return resp
}
