package entity

import (
	"time"

	"library-lending/pkg/utils"

	"github.com/google/uuid"
)

// Borrowing is a loan of one book copy. It has exactly two states: open
// (ActualReturnDate nil) and returned. Dates are whole days at midnight UTC.
type Borrowing struct {
	Base
	BorrowDate         time.Time  `db:"borrow_date"`
	ExpectedReturnDate time.Time  `db:"expected_return_date"`
	ActualReturnDate   *time.Time `db:"actual_return_date"`
	BookID             uuid.UUID  `db:"book_id"`
	UserID             uuid.UUID  `db:"user_id"`
}

// IsActive derives the open/returned state from the return date.
func (b *Borrowing) IsActive() bool {
	return b.ActualReturnDate == nil
}

// RentalDays is the agreed loan length at borrow time.
func (b *Borrowing) RentalDays() int {
	return utils.DaysBetween(b.BorrowDate, b.ExpectedReturnDate)
}

// OverdueDays returns how many days past the expected return date the loan
// was (or would be) settled. Zero or negative means on time.
func (b *Borrowing) OverdueDays(returnedOn time.Time) int {
	return utils.DaysBetween(b.ExpectedReturnDate, returnedOn)
}
