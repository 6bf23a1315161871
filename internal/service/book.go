package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/libhub/library-service/internal/errs"
	"github.com/libhub/library-service/internal/model"
	"github.com/libhub/library-service/internal/repository"
)

type BookService struct {
	log        *zap.Logger
	repo       repository.BookRepository
	borrowRepo repository.BorrowingRepository
}

func NewBookService(repo repository.BookRepository, borrowRepo repository.BorrowingRepository, log *zap.Logger) *BookService {
	return &BookService{
		log:        log,
		repo:       repo,
		borrowRepo: borrowRepo,
	}
}

func (s *BookService) CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error) {
	if err := validatePublishedYear(req.PublishedYear); err != nil {
		return model.Book{}, err
	}
	return s.repo.CreateBook(ctx, req)
}

func (s *BookService) GetBook(ctx context.Context, id int64) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *BookService) UpdateBook(ctx context.Context, id int64, req model.BookRequest) (model.Book, error) {
	if err := validatePublishedYear(req.PublishedYear); err != nil {
		return model.Book{}, err
	}
	return s.repo.UpdateBook(ctx, id, req)
}

func (s *BookService) DeleteBook(ctx context.Context, id int64) error {
	return s.repo.DeleteBook(ctx, id)
}

func (s *BookService) ListBooks(ctx context.Context, page, size int) (model.ListBooks, error) {
	return s.repo.ListBooks(ctx, page, size)
}

func (s *BookService) SearchBooks(ctx context.Context, query string, page, size int) (model.ListBooks, error) {
	return s.repo.SearchBooks(ctx, query, page, size)
}

// MostBorrowedBooks delegates counting to the borrowing aggregation.
func (s *BookService) MostBorrowedBooks(ctx context.Context, limit int) ([]model.BookBorrowCount, error) {
	return s.borrowRepo.MostBorrowedBooks(ctx, limit)
}

// the validator tag covers the lower bound, the upper one is dynamic
func validatePublishedYear(year int) error {
	if year > time.Now().Year() {
		return errs.ErrPublishedYear
	}
	return nil
}
