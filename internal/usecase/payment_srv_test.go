package usecase

import (
	"context"
	"testing"
	"time"

	"library-lending/internal/data/entity"
	"library-lending/pkg/checkout"
	"library-lending/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPaymentTestService(env *testEnv) *paymentService {
	return &paymentService{repo: env.repo, checkout: env.checkout, config: testConfig(), log: zap.NewNop()}
}

func seedPayment(env *testEnv, borrowingID uuid.UUID, status entity.PaymentStatus, amount string) *entity.Payment {
	sessionID := "cs_seed_" + uuid.NewString()[:8]
	sessionURL := "https://checkout.example.com/pay/" + sessionID
	payment := &entity.Payment{
		Status:      status,
		Type:        entity.PaymentTypePayment,
		BorrowingID: borrowingID,
		SessionID:   &sessionID,
		SessionURL:  &sessionURL,
		MoneyToPay:  decimal.RequireFromString(amount),
	}
	payment.ID = uuid.New()
	env.payments.payments[payment.ID] = payment
	return payment
}

func TestPaymentAmount(t *testing.T) {
	book := &entity.Book{DailyFee: decimal.RequireFromString("2.25")}

	borrow := date(2026, time.April, 1)
	expected := date(2026, time.April, 6)
	returned := date(2026, time.April, 9)

	borrowing := &entity.Borrowing{
		BorrowDate:         borrow,
		ExpectedReturnDate: expected,
		ActualReturnDate:   &returned,
	}

	// 5 rental days at 2.25
	rental := paymentAmount(borrowing, book, entity.PaymentTypePayment)
	assert.True(t, rental.Equal(decimal.RequireFromString("11.25")), "rental = %s", rental)

	// 3 overdue days at 2.25, doubled
	fine := paymentAmount(borrowing, book, entity.PaymentTypeFine)
	assert.True(t, fine.Equal(decimal.RequireFromString("13.50")), "fine = %s", fine)
}

func TestRenewSession(t *testing.T) {
	userID := uuid.New()

	setup := func() (*testEnv, *paymentService, *entity.Payment) {
		env := newTestEnv()
		svc := newPaymentTestService(env)
		book := seedBook(env, 1, "1.00")
		borrowing := seedBorrowing(env, book, userID, date(2026, time.March, 1), date(2026, time.March, 8))
		payment := seedPayment(env, borrowing.ID, entity.PaymentStatusExpired, "7.00")
		return env, svc, payment
	}

	t.Run("reopens an expired payment at the same amount", func(t *testing.T) {
		env, svc, payment := setup()
		oldSessionID := *payment.SessionID

		resp, err := svc.RenewSession(context.Background(), userID, false, payment.ID.String())
		require.NoError(t, err)

		assert.Equal(t, entity.PaymentStatusPending, resp.Status)
		require.NotNil(t, resp.SessionID)
		assert.NotEqual(t, oldSessionID, *resp.SessionID)
		assert.True(t, resp.MoneyToPay.Equal(decimal.RequireFromString("7.00")))

		require.Len(t, env.checkout.createCalls, 1)
		assert.Equal(t, int64(700), env.checkout.createCalls[0].AmountMinor)

		stored := env.payments.payments[payment.ID]
		assert.Equal(t, entity.PaymentStatusPending, stored.Status)
	})

	t.Run("refuses anything that is not expired", func(t *testing.T) {
		env, svc, payment := setup()
		env.payments.payments[payment.ID].Status = entity.PaymentStatusPending

		_, err := svc.RenewSession(context.Background(), userID, false, payment.ID.String())
		assert.ErrorIs(t, err, utils.ErrPaymentNotExpired)
		assert.ErrorIs(t, err, utils.ErrForbidden)
		assert.Empty(t, env.checkout.createCalls)
	})

	t.Run("strangers cannot renew someone else's payment", func(t *testing.T) {
		_, svc, payment := setup()

		_, err := svc.RenewSession(context.Background(), uuid.New(), false, payment.ID.String())
		assert.ErrorIs(t, err, utils.ErrForbidden)
	})
}

func TestConfirmSuccess(t *testing.T) {
	userID := uuid.New()

	setup := func() (*testEnv, *paymentService, *entity.Payment) {
		env := newTestEnv()
		svc := newPaymentTestService(env)
		book := seedBook(env, 1, "1.00")
		borrowing := seedBorrowing(env, book, userID, date(2026, time.March, 1), date(2026, time.March, 8))
		payment := seedPayment(env, borrowing.ID, entity.PaymentStatusPending, "7.00")
		return env, svc, payment
	}

	t.Run("marks paid once the provider confirms", func(t *testing.T) {
		env, svc, payment := setup()
		env.checkout.retrieve[*payment.SessionID] = &checkout.Session{
			ID:            *payment.SessionID,
			Status:        "complete",
			PaymentStatus: checkout.PaymentStatusPaid,
		}

		resp, paid, err := svc.ConfirmSuccess(context.Background(), payment.ID.String())
		require.NoError(t, err)
		assert.True(t, paid)
		assert.Equal(t, entity.PaymentStatusPaid, resp.Status)
		assert.Equal(t, entity.PaymentStatusPaid, env.payments.payments[payment.ID].Status)
	})

	t.Run("stays pending when the session is unpaid", func(t *testing.T) {
		env, svc, payment := setup()
		env.checkout.retrieve[*payment.SessionID] = &checkout.Session{
			ID:            *payment.SessionID,
			Status:        "open",
			PaymentStatus: checkout.PaymentStatusUnpaid,
		}

		_, paid, err := svc.ConfirmSuccess(context.Background(), payment.ID.String())
		require.NoError(t, err)
		assert.False(t, paid)
		assert.Equal(t, entity.PaymentStatusPending, env.payments.payments[payment.ID].Status)
	})

	t.Run("confirming an already paid payment is a no-op", func(t *testing.T) {
		env, svc, payment := setup()
		env.payments.payments[payment.ID].Status = entity.PaymentStatusPaid

		_, paid, err := svc.ConfirmSuccess(context.Background(), payment.ID.String())
		require.NoError(t, err)
		assert.True(t, paid)
	})

	t.Run("unknown payment", func(t *testing.T) {
		_, svc, _ := setup()

		_, _, err := svc.ConfirmSuccess(context.Background(), uuid.NewString())
		assert.ErrorIs(t, err, utils.ErrNotFound)
	})
}

func TestMarkExpired(t *testing.T) {
	userID := uuid.New()
	env := newTestEnv()
	svc := newPaymentTestService(env)
	book := seedBook(env, 1, "1.00")
	borrowing := seedBorrowing(env, book, userID, date(2026, time.March, 1), date(2026, time.March, 8))

	expiredUnpaid := seedPayment(env, borrowing.ID, entity.PaymentStatusPending, "1.00")
	expiredPaid := seedPayment(env, borrowing.ID, entity.PaymentStatusPending, "2.00")
	stillOpen := seedPayment(env, borrowing.ID, entity.PaymentStatusPending, "3.00")

	env.checkout.sessions = []checkout.Session{
		{ID: *expiredUnpaid.SessionID, Status: checkout.SessionStatusExpired, PaymentStatus: checkout.PaymentStatusUnpaid},
		{ID: *expiredPaid.SessionID, Status: checkout.SessionStatusExpired, PaymentStatus: checkout.PaymentStatusPaid},
		{ID: *stillOpen.SessionID, Status: "open", PaymentStatus: checkout.PaymentStatusUnpaid},
	}

	count, err := svc.MarkExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	assert.Equal(t, entity.PaymentStatusExpired, env.payments.payments[expiredUnpaid.ID].Status)
	assert.Equal(t, entity.PaymentStatusPending, env.payments.payments[expiredPaid.ID].Status)
	assert.Equal(t, entity.PaymentStatusPending, env.payments.payments[stillOpen.ID].Status)
}

func TestGetPaymentByID(t *testing.T) {
	userID := uuid.New()
	env := newTestEnv()
	svc := newPaymentTestService(env)
	book := seedBook(env, 1, "1.00")
	borrowing := seedBorrowing(env, book, userID, date(2026, time.March, 1), date(2026, time.March, 8))
	payment := seedPayment(env, borrowing.ID, entity.PaymentStatusPending, "7.00")

	t.Run("owner", func(t *testing.T) {
		resp, err := svc.GetPaymentByID(context.Background(), userID, false, payment.ID.String())
		require.NoError(t, err)
		assert.Equal(t, payment.ID.String(), resp.ID)
	})

	t.Run("stranger", func(t *testing.T) {
		_, err := svc.GetPaymentByID(context.Background(), uuid.New(), false, payment.ID.String())
		assert.ErrorIs(t, err, utils.ErrForbidden)
	})

	t.Run("staff", func(t *testing.T) {
		_, err := svc.GetPaymentByID(context.Background(), uuid.New(), true, payment.ID.String())
		assert.NoError(t, err)
	})
}
