package usecase

import (
	"context"
	"fmt"
	"time"

	"library-lending/internal/data/entity"
	"library-lending/internal/data/repository"
	"library-lending/pkg/checkout"

	"github.com/google/uuid"
)

// ---------- repositories ----------

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*entity.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	f.users[user.ID] = user
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*entity.Session
	revoked  []string
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*entity.Session{}}
}

func (f *fakeSessionRepo) Create(_ context.Context, session *entity.Session) error {
	f.sessions[session.Token.String()] = session
	return nil
}

func (f *fakeSessionRepo) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	return f.sessions[token], nil
}

func (f *fakeSessionRepo) Revoke(_ context.Context, token string) error {
	f.revoked = append(f.revoked, token)
	delete(f.sessions, token)
	return nil
}

type fakeBookRepo struct {
	books map[uuid.UUID]*entity.Book
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: map[uuid.UUID]*entity.Book{}}
}

func (f *fakeBookRepo) Create(_ context.Context, book *entity.Book) error {
	f.books[book.ID] = book
	return nil
}

func (f *fakeBookRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Book, error) {
	return f.books[id], nil
}

func (f *fakeBookRepo) FindAll(_ context.Context, _, _ int) ([]*entity.Book, error) {
	out := make([]*entity.Book, 0, len(f.books))
	for _, book := range f.books {
		out = append(out, book)
	}
	return out, nil
}

func (f *fakeBookRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.books)), nil
}

func (f *fakeBookRepo) Update(_ context.Context, book *entity.Book) error {
	f.books[book.ID] = book
	return nil
}

func (f *fakeBookRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.books, id)
	return nil
}

func (f *fakeBookRepo) DecrementInventory(_ context.Context, id uuid.UUID) (bool, error) {
	book, ok := f.books[id]
	if !ok || book.Inventory <= 0 {
		return false, nil
	}
	book.Inventory--
	return true, nil
}

func (f *fakeBookRepo) IncrementInventory(_ context.Context, id uuid.UUID) error {
	book, ok := f.books[id]
	if !ok {
		return fmt.Errorf("book %s not found", id)
	}
	book.Inventory++
	return nil
}

type fakeBorrowingRepo struct {
	borrowings map[uuid.UUID]*entity.Borrowing

	// forceReturnRace makes MarkReturned report a lost race once
	forceReturnRace bool

	// markReturnedErr fails the next MarkReturned call once
	markReturnedErr error
}

func newFakeBorrowingRepo() *fakeBorrowingRepo {
	return &fakeBorrowingRepo{borrowings: map[uuid.UUID]*entity.Borrowing{}}
}

func (f *fakeBorrowingRepo) Create(_ context.Context, borrowing *entity.Borrowing) error {
	stored := *borrowing
	f.borrowings[borrowing.ID] = &stored
	return nil
}

func (f *fakeBorrowingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Borrowing, error) {
	borrowing, ok := f.borrowings[id]
	if !ok {
		return nil, nil
	}
	found := *borrowing
	return &found, nil
}

func (f *fakeBorrowingRepo) Find(_ context.Context, filter repository.BorrowingFilter, _, _ int) ([]*entity.Borrowing, error) {
	var out []*entity.Borrowing
	for _, borrowing := range f.borrowings {
		if filter.UserID != nil && borrowing.UserID != *filter.UserID {
			continue
		}
		if filter.IsActive != nil && borrowing.IsActive() != *filter.IsActive {
			continue
		}
		out = append(out, borrowing)
	}
	return out, nil
}

func (f *fakeBorrowingRepo) Count(ctx context.Context, filter repository.BorrowingFilter) (int64, error) {
	found, _ := f.Find(ctx, filter, 0, 0)
	return int64(len(found)), nil
}

func (f *fakeBorrowingRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.borrowings, id)
	return nil
}

func (f *fakeBorrowingRepo) FindOpen(_ context.Context) ([]*entity.Borrowing, error) {
	var out []*entity.Borrowing
	for _, borrowing := range f.borrowings {
		if borrowing.IsActive() {
			out = append(out, borrowing)
		}
	}
	return out, nil
}

func (f *fakeBorrowingRepo) MarkReturned(_ context.Context, id uuid.UUID, returnDate time.Time) (bool, error) {
	if f.markReturnedErr != nil {
		err := f.markReturnedErr
		f.markReturnedErr = nil
		return false, err
	}
	if f.forceReturnRace {
		f.forceReturnRace = false
		return false, nil
	}
	borrowing, ok := f.borrowings[id]
	if !ok || borrowing.ActualReturnDate != nil {
		return false, nil
	}
	borrowing.ActualReturnDate = &returnDate
	return true, nil
}

type fakePaymentRepo struct {
	payments map[uuid.UUID]*entity.Payment

	// pendingUsers drives HasPendingForUser without joining borrowings
	pendingUsers map[uuid.UUID]bool
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{
		payments:     map[uuid.UUID]*entity.Payment{},
		pendingUsers: map[uuid.UUID]bool{},
	}
}

func (f *fakePaymentRepo) Create(_ context.Context, payment *entity.Payment) error {
	stored := *payment
	f.payments[payment.ID] = &stored
	return nil
}

func (f *fakePaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Payment, error) {
	payment, ok := f.payments[id]
	if !ok {
		return nil, nil
	}
	found := *payment
	return &found, nil
}

func (f *fakePaymentRepo) FindAll(_ context.Context, _, _ int) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, payment := range f.payments {
		out = append(out, payment)
	}
	return out, nil
}

func (f *fakePaymentRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(f.payments)), nil
}

func (f *fakePaymentRepo) FindByUserID(_ context.Context, _ uuid.UUID, _, _ int) ([]*entity.Payment, error) {
	return nil, nil
}

func (f *fakePaymentRepo) CountByUserID(_ context.Context, _ uuid.UUID) (int64, error) {
	return 0, nil
}

func (f *fakePaymentRepo) FindByBorrowingID(_ context.Context, borrowingID uuid.UUID) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, payment := range f.payments {
		if payment.BorrowingID == borrowingID {
			out = append(out, payment)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.payments, id)
	return nil
}

func (f *fakePaymentRepo) HasPendingForUser(_ context.Context, userID uuid.UUID) (bool, error) {
	return f.pendingUsers[userID], nil
}

func (f *fakePaymentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.PaymentStatus) error {
	payment, ok := f.payments[id]
	if !ok {
		return fmt.Errorf("payment %s not found", id)
	}
	payment.Status = status
	return nil
}

func (f *fakePaymentRepo) UpdateSession(_ context.Context, id uuid.UUID, sessionID, sessionURL string, status entity.PaymentStatus) error {
	payment, ok := f.payments[id]
	if !ok {
		return fmt.Errorf("payment %s not found", id)
	}
	payment.SessionID = &sessionID
	payment.SessionURL = &sessionURL
	payment.Status = status
	return nil
}

func (f *fakePaymentRepo) MarkExpiredBySessionIDs(_ context.Context, sessionIDs []string) (int64, error) {
	var count int64
	for _, payment := range f.payments {
		if payment.Status != entity.PaymentStatusPending || payment.SessionID == nil {
			continue
		}
		for _, sid := range sessionIDs {
			if *payment.SessionID == sid {
				payment.Status = entity.PaymentStatusExpired
				count++
			}
		}
	}
	return count, nil
}

// ---------- checkout provider ----------

type fakeCheckout struct {
	createErr   error
	createCalls []checkout.CreateSessionInput
	expired     []string
	sessions    []checkout.Session

	// retrieve is keyed by session id
	retrieve map[string]*checkout.Session
}

func newFakeCheckout() *fakeCheckout {
	return &fakeCheckout{retrieve: map[string]*checkout.Session{}}
}

func (f *fakeCheckout) CreateSession(_ context.Context, in checkout.CreateSessionInput) (*checkout.Session, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createCalls = append(f.createCalls, in)
	id := fmt.Sprintf("cs_test_%d", len(f.createCalls))
	return &checkout.Session{
		ID:     id,
		URL:    "https://checkout.example.com/pay/" + id,
		Status: "open",
	}, nil
}

func (f *fakeCheckout) RetrieveSession(_ context.Context, id string) (*checkout.Session, error) {
	session, ok := f.retrieve[id]
	if !ok {
		return nil, &checkout.ProviderError{StatusCode: 404, Message: "no such session"}
	}
	return session, nil
}

func (f *fakeCheckout) ExpireSession(_ context.Context, id string) error {
	f.expired = append(f.expired, id)
	return nil
}

func (f *fakeCheckout) ListSessions(_ context.Context) ([]checkout.Session, error) {
	return f.sessions, nil
}

// ---------- notifier ----------

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) Send(_ context.Context, text string) error {
	f.messages = append(f.messages, text)
	return nil
}

// ---------- assembly ----------

type testEnv struct {
	users      *fakeUserRepo
	sessions   *fakeSessionRepo
	books      *fakeBookRepo
	borrowings *fakeBorrowingRepo
	payments   *fakePaymentRepo
	checkout   *fakeCheckout
	notifier   *fakeNotifier
	repo       *repository.Repository
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:      newFakeUserRepo(),
		sessions:   newFakeSessionRepo(),
		books:      newFakeBookRepo(),
		borrowings: newFakeBorrowingRepo(),
		payments:   newFakePaymentRepo(),
		checkout:   newFakeCheckout(),
		notifier:   &fakeNotifier{},
	}
	env.repo = &repository.Repository{
		User:      env.users,
		Session:   env.sessions,
		Book:      env.books,
		Borrowing: env.borrowings,
		Payment:   env.payments,
	}
	return env
}
