package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/libhub/library-service/internal/model"
	"github.com/libhub/library-service/internal/repository"
)

const statsTop = 5

type BorrowingService struct {
	log  *zap.Logger
	repo repository.BorrowingRepository
}

func NewBorrowingService(repo repository.BorrowingRepository, log *zap.Logger) *BorrowingService {
	return &BorrowingService{
		log:  log,
		repo: repo,
	}
}

func (s *BorrowingService) Borrow(ctx context.Context, userID int64, bookIDs []int64) ([]model.Borrowing, error) {
	return s.repo.CreateBorrowings(ctx, userID, bookIDs)
}

func (s *BorrowingService) Return(ctx context.Context, userID int64, borrowingIDs []int64) error {
	return s.repo.ReturnBorrowings(ctx, userID, borrowingIDs)
}

func (s *BorrowingService) UserBorrowings(ctx context.Context, userID int64, returned *bool) ([]model.UserBorrowing, error) {
	return s.repo.UserBorrowings(ctx, userID, returned)
}

// Stats aggregates totals and top-5 users/books. The two top queries are
// independent and run concurrently.
func (s *BorrowingService) Stats(ctx context.Context) (model.BorrowingStats, error) {
	counts, err := s.repo.BorrowingCounts(ctx)
	if err != nil {
		return model.BorrowingStats{}, err
	}

	var (
		users []model.UserBorrowCount
		books []model.BookBorrowCount
	)
	gg, ctx := errgroup.WithContext(ctx)
	gg.Go(func() error {
		var err error
		users, err = s.repo.MostActiveUsers(ctx, statsTop)
		return err
	})
	gg.Go(func() error {
		var err error
		books, err = s.repo.MostBorrowedBooks(ctx, statsTop)
		return err
	})
	if err := gg.Wait(); err != nil {
		return model.BorrowingStats{}, err
	}

	return model.BorrowingStats{
		TotalBorrowings:    counts.Total,
		ActiveBorrowings:   counts.Active,
		ReturnedBorrowings: counts.Returned,
		MostActiveUsers:    users,
		MostBorrowedBooks:  books,
	}, nil
}
