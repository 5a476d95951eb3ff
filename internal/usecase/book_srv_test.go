package usecase

import (
	"context"
	"testing"

	"library-lending/internal/dto/request"
	"library-lending/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBookTestService(env *testEnv) *bookService {
	return &bookService{repo: env.repo, log: zap.NewNop()}
}

func TestCreateBook(t *testing.T) {
	t.Run("stores the book", func(t *testing.T) {
		env := newTestEnv()
		svc := newBookTestService(env)

		resp, err := svc.CreateBook(context.Background(), &request.CreateBookRequest{
			Title:     "Kobzar",
			Author:    "Taras Shevchenko",
			Cover:     "HARD",
			Inventory: 3,
			DailyFee:  decimal.RequireFromString("1.50"),
		})
		require.NoError(t, err)
		assert.True(t, resp.IsAvailable)
		assert.Len(t, env.books.books, 1)
	})

	t.Run("rejects negative daily fee", func(t *testing.T) {
		env := newTestEnv()
		svc := newBookTestService(env)

		_, err := svc.CreateBook(context.Background(), &request.CreateBookRequest{
			Title:    "Kobzar",
			Author:   "Taras Shevchenko",
			Cover:    "SOFT",
			DailyFee: decimal.RequireFromString("-1"),
		})
		assert.ErrorIs(t, err, utils.ErrValidation)
	})
}

func TestUpdateBook(t *testing.T) {
	env := newTestEnv()
	svc := newBookTestService(env)
	book := seedBook(env, 3, "1.50")

	title := "Kobzar, 2nd edition"
	inventory := 0
	resp, err := svc.UpdateBook(context.Background(), book.ID.String(), &request.UpdateBookRequest{
		Title:     &title,
		Inventory: &inventory,
	})
	require.NoError(t, err)

	assert.Equal(t, title, resp.Title)
	assert.False(t, resp.IsAvailable, "zero inventory means unavailable")
	assert.Equal(t, "Taras Shevchenko", resp.Author, "untouched fields keep their values")
}

func TestGetBookByID(t *testing.T) {
	env := newTestEnv()
	svc := newBookTestService(env)

	t.Run("invalid id", func(t *testing.T) {
		_, err := svc.GetBookByID(context.Background(), "not-a-uuid")
		assert.ErrorIs(t, err, utils.ErrValidation)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.GetBookByID(context.Background(), uuid.NewString())
		assert.ErrorIs(t, err, utils.ErrNotFound)
	})
}

func TestDeleteBook(t *testing.T) {
	env := newTestEnv()
	svc := newBookTestService(env)
	book := seedBook(env, 1, "1.00")

	require.NoError(t, svc.DeleteBook(context.Background(), book.ID.String()))
	assert.Empty(t, env.books.books)

	err := svc.DeleteBook(context.Background(), book.ID.String())
	assert.ErrorIs(t, err, utils.ErrNotFound)
}
