package request

type CreateBorrowingRequest struct {
	BookID string `json:"book_id" validate:"required,uuid4"`
	// ExpectedReturnDate must be strictly after today
	ExpectedReturnDate string `json:"expected_return_date" validate:"required,datetime=2006-01-02"`
}

// ListBorrowingsRequest carries the query filters. UserID is honored for
// staff only; IsActive comes pre-parsed from the case-insensitive flag.
type ListBorrowingsRequest struct {
	UserID   string
	IsActive *bool
	PaginatedRequest
}
