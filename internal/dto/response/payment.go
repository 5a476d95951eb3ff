package response

import (
	"time"

	"library-lending/internal/data/entity"

	"github.com/shopspring/decimal"
)

type PaymentResponse struct {
	ID          string               `json:"id"`
	Status      entity.PaymentStatus `json:"status"`
	Type        entity.PaymentType   `json:"type"`
	BorrowingID string               `json:"borrowing_id"`
	SessionURL  *string              `json:"session_url,omitempty"`
	SessionID   *string              `json:"session_id,omitempty"`
	MoneyToPay  decimal.Decimal      `json:"money_to_pay"`
	CreatedAt   time.Time            `json:"created_at"`
}

func PaymentToResponse(payment *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          payment.ID.String(),
		Status:      payment.Status,
		Type:        payment.Type,
		BorrowingID: payment.BorrowingID.String(),
		SessionURL:  payment.SessionURL,
		SessionID:   payment.SessionID,
		MoneyToPay:  payment.MoneyToPay,
		CreatedAt:   payment.CreatedAt,
	}
}
