package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusExpired PaymentStatus = "EXPIRED"
)

type PaymentType string

const (
	// PaymentTypePayment is the rental fee charged at borrow time
	PaymentTypePayment PaymentType = "PAYMENT"
	// PaymentTypeFine is the overdue fine charged at return time
	PaymentTypeFine PaymentType = "FINE"
)

// Payment is a monetary obligation tied to a borrowing. MoneyToPay is fixed at
// creation; only the status and session handle change afterwards.
type Payment struct {
	Base
	Status      PaymentStatus   `db:"status"`
	Type        PaymentType     `db:"type"`
	BorrowingID uuid.UUID       `db:"borrowing_id"`
	SessionURL  *string         `db:"session_url"`
	SessionID   *string         `db:"session_id"`
	MoneyToPay  decimal.Decimal `db:"money_to_pay"`
}
