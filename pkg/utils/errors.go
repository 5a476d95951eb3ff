package utils

import (
	"errors"
	"fmt"
)

// Sentinel errors for the lending domain. Services wrap these with context via
// fmt.Errorf("...: %w", ...); handlers dispatch on them with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("resource not found")
	ErrForbidden  = errors.New("forbidden")

	// Domain-rule violations, all reported as 400
	ErrAlreadyReturned   = fmt.Errorf("borrowing is already returned: %w", ErrValidation)
	ErrNoCopiesAvailable = fmt.Errorf("no copies available: %w", ErrValidation)

	// Reported as 403: the caller is authenticated but the operation is blocked
	ErrPendingPayments   = fmt.Errorf("user has pending payments: %w", ErrForbidden)
	ErrPaymentNotExpired = fmt.Errorf("payment session is not expired: %w", ErrForbidden)
)
