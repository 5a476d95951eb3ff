package repository

import (
	"context"
	"fmt"

	"library-lending/internal/data/entity"
	"library-lending/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookRepository interface {
	Create(ctx context.Context, book *entity.Book) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Book, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Book, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, book *entity.Book) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Inventory mutations, atomic against concurrent borrow/return
	DecrementInventory(ctx context.Context, id uuid.UUID) (bool, error)
	IncrementInventory(ctx context.Context, id uuid.UUID) error
}

type bookRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookRepository(db database.PgxIface, log *zap.Logger) BookRepository {
	return &bookRepository{
		db:  db,
		log: log.With(zap.String("repository", "book")),
	}
}

func (r *bookRepository) Create(ctx context.Context, book *entity.Book) error {
	query := `
		INSERT INTO books (id, title, author, cover, inventory, daily_fee, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		book.ID,
		book.Title,
		book.Author,
		book.Cover,
		book.Inventory,
		book.DailyFee,
		book.CreatedAt,
		book.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create book",
			zap.Error(err),
			zap.String("title", book.Title),
		)
		return fmt.Errorf("create book %s: %w", book.Title, err)
	}

	return nil
}

func (r *bookRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	query := `
		SELECT id, title, author, cover, inventory, daily_fee, created_at, updated_at
		FROM books
		WHERE id = $1
	`

	var book entity.Book
	err := r.db.QueryRow(ctx, query, id).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Cover,
		&book.Inventory,
		&book.DailyFee,
		&book.CreatedAt,
		&book.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find book by ID",
			zap.Error(err),
			zap.String("book_id", id.String()),
		)
		return nil, fmt.Errorf("find book by ID %s: %w", id.String(), err)
	}

	return &book, nil
}

func (r *bookRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Book, error) {
	query := `
		SELECT id, title, author, cover, inventory, daily_fee, created_at, updated_at
		FROM books
		ORDER BY title, author
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list books",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var books []*entity.Book
	for rows.Next() {
		var book entity.Book
		err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.Author,
			&book.Cover,
			&book.Inventory,
			&book.DailyFee,
			&book.CreatedAt,
			&book.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan book row", zap.Error(err))
			return nil, fmt.Errorf("scan book row: %w", err)
		}
		books = append(books, &book)
	}

	return books, nil
}

func (r *bookRepository) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM books`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Failed to count books", zap.Error(err))
		return 0, fmt.Errorf("count books: %w", err)
	}

	return count, nil
}

func (r *bookRepository) Update(ctx context.Context, book *entity.Book) error {
	query := `
		UPDATE books
		SET title = $2, author = $3, cover = $4, inventory = $5, daily_fee = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		book.ID,
		book.Title,
		book.Author,
		book.Cover,
		book.Inventory,
		book.DailyFee,
		book.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update book",
			zap.Error(err),
			zap.String("book_id", book.ID.String()),
		)
		return fmt.Errorf("update book %s: %w", book.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("book %s not found", book.ID.String())
	}

	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM books WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete book",
			zap.Error(err),
			zap.String("book_id", id.String()),
		)
		return fmt.Errorf("delete book %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("book %s not found", id.String())
	}

	r.log.Info("Book deleted", zap.String("book_id", id.String()))
	return nil
}

// DecrementInventory takes one copy. The inventory > 0 guard makes the
// read-modify-write a single atomic statement, so two borrows racing for the
// last copy cannot both win. Returns false when no copy was available.
func (r *bookRepository) DecrementInventory(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE books SET inventory = inventory - 1, updated_at = NOW() WHERE id = $1 AND inventory > 0`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to decrement inventory",
			zap.Error(err),
			zap.String("book_id", id.String()),
		)
		return false, fmt.Errorf("decrement inventory of book %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *bookRepository) IncrementInventory(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE books SET inventory = inventory + 1, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to increment inventory",
			zap.Error(err),
			zap.String("book_id", id.String()),
		)
		return fmt.Errorf("increment inventory of book %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("book %s not found", id.String())
	}

	return nil
}
