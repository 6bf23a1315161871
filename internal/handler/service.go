package handler

import (
	"context"

	"github.com/libhub/library-service/internal/model"
	"github.com/libhub/library-service/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type UserService interface {
	Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error)
	Profile(ctx context.Context, userID int64) (model.Profile, error)
	SaveNotes(ctx context.Context, userID int64, notes string) error
	Promote(ctx context.Context, userID int64) error
}

type BookService interface {
	CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error)
	GetBook(ctx context.Context, id int64) (model.Book, error)
	UpdateBook(ctx context.Context, id int64, req model.BookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id int64) error
	ListBooks(ctx context.Context, page, size int) (model.ListBooks, error)
	SearchBooks(ctx context.Context, query string, page, size int) (model.ListBooks, error)
	MostBorrowedBooks(ctx context.Context, limit int) ([]model.BookBorrowCount, error)
}

type BorrowingService interface {
	Borrow(ctx context.Context, userID int64, bookIDs []int64) ([]model.Borrowing, error)
	Return(ctx context.Context, userID int64, borrowingIDs []int64) error
	UserBorrowings(ctx context.Context, userID int64, returned *bool) ([]model.UserBorrowing, error)
	Stats(ctx context.Context) (model.BorrowingStats, error)
}

var (
	_ UserService      = (*service.UserService)(nil)
	_ BookService      = (*service.BookService)(nil)
	_ BorrowingService = (*service.BorrowingService)(nil)
)
