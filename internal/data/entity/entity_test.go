package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBookIsAvailable(t *testing.T) {
	assert.True(t, (&Book{Inventory: 1}).IsAvailable())
	assert.False(t, (&Book{Inventory: 0}).IsAvailable())
}

func TestBorrowingIsActive(t *testing.T) {
	borrowing := &Borrowing{}
	assert.True(t, borrowing.IsActive())

	returned := day(2026, time.March, 5)
	borrowing.ActualReturnDate = &returned
	assert.False(t, borrowing.IsActive())
}

func TestBorrowingRentalDays(t *testing.T) {
	borrowing := &Borrowing{
		BorrowDate:         day(2026, time.March, 1),
		ExpectedReturnDate: day(2026, time.March, 8),
	}
	assert.Equal(t, 7, borrowing.RentalDays())
}

func TestBorrowingOverdueDays(t *testing.T) {
	borrowing := &Borrowing{
		BorrowDate:         day(2026, time.March, 1),
		ExpectedReturnDate: day(2026, time.March, 8),
	}

	assert.Equal(t, 3, borrowing.OverdueDays(day(2026, time.March, 11)))
	assert.Equal(t, 0, borrowing.OverdueDays(day(2026, time.March, 8)))
	assert.Equal(t, -2, borrowing.OverdueDays(day(2026, time.March, 6)), "early returns go negative")
}

func TestUserFullName(t *testing.T) {
	assert.Equal(t, "Lesia Ukrainka", (&User{FirstName: "Lesia", LastName: "Ukrainka"}).FullName())
	assert.Equal(t, "Lesia", (&User{FirstName: "Lesia"}).FullName())
	assert.Equal(t, "reader@example.com", (&User{Email: "reader@example.com"}).FullName())
}
