package usecase

import (
	"context"
	"fmt"

	"library-lending/internal/data/entity"
	"library-lending/internal/data/repository"
	"library-lending/internal/dto/request"
	"library-lending/internal/dto/response"
	"library-lending/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookService interface {
	CreateBook(ctx context.Context, req *request.CreateBookRequest) (*response.BookResponse, error)
	GetBooks(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookResponse], error)
	GetBookByID(ctx context.Context, bookID string) (*response.BookResponse, error)
	UpdateBook(ctx context.Context, bookID string, req *request.UpdateBookRequest) (*response.BookResponse, error)
	DeleteBook(ctx context.Context, bookID string) error
}

type bookService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewBookService(repo *repository.Repository, log *zap.Logger) BookService {
	return &bookService{repo: repo, log: log}
}

func (s *bookService) CreateBook(ctx context.Context, req *request.CreateBookRequest) (*response.BookResponse, error) {
	if req.DailyFee.IsNegative() {
		return nil, fmt.Errorf("daily_fee must not be negative: %w", utils.ErrValidation)
	}

	book := &entity.Book{
		Title:     req.Title,
		Author:    req.Author,
		Cover:     entity.CoverType(req.Cover),
		Inventory: req.Inventory,
		DailyFee:  req.DailyFee,
	}
	book.ID = uuid.New()

	if err := s.repo.Book.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.log.Info("book created", zap.String("book_id", book.ID.String()), zap.String("title", book.Title))
	resp := response.BookToResponse(book)
	return &resp, nil
}

func (s *bookService) GetBooks(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookResponse], error) {
	books, err := s.repo.Book.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	total, err := s.repo.Book.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}

	items := make([]response.BookResponse, 0, len(books))
	for _, book := range books {
		items = append(items, response.BookToResponse(book))
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (s *bookService) GetBookByID(ctx context.Context, bookID string) (*response.BookResponse, error) {
	id, err := utils.ParseUUID(bookID)
	if err != nil {
		return nil, fmt.Errorf("invalid book id: %w", utils.ErrValidation)
	}

	book, err := s.repo.Book.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find book: %w", err)
	}
	if book == nil {
		return nil, fmt.Errorf("book not found: %w", utils.ErrNotFound)
	}

	resp := response.BookToResponse(book)
	return &resp, nil
}

func (s *bookService) UpdateBook(ctx context.Context, bookID string, req *request.UpdateBookRequest) (*response.BookResponse, error) {
	id, err := utils.ParseUUID(bookID)
	if err != nil {
		return nil, fmt.Errorf("invalid book id: %w", utils.ErrValidation)
	}

	book, err := s.repo.Book.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find book: %w", err)
	}
	if book == nil {
		return nil, fmt.Errorf("book not found: %w", utils.ErrNotFound)
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Cover != nil {
		book.Cover = entity.CoverType(*req.Cover)
	}
	if req.Inventory != nil {
		book.Inventory = *req.Inventory
	}
	if req.DailyFee != nil {
		if req.DailyFee.IsNegative() {
			return nil, fmt.Errorf("daily_fee must not be negative: %w", utils.ErrValidation)
		}
		book.DailyFee = *req.DailyFee
	}

	if err := s.repo.Book.Update(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	s.log.Info("book updated", zap.String("book_id", book.ID.String()))
	resp := response.BookToResponse(book)
	return &resp, nil
}

func (s *bookService) DeleteBook(ctx context.Context, bookID string) error {
	id, err := utils.ParseUUID(bookID)
	if err != nil {
		return fmt.Errorf("invalid book id: %w", utils.ErrValidation)
	}

	book, err := s.repo.Book.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find book: %w", err)
	}
	if book == nil {
		return fmt.Errorf("book not found: %w", utils.ErrNotFound)
	}

	if err := s.repo.Book.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	s.log.Info("book deleted", zap.String("book_id", bookID))
	return nil
}
