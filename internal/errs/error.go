package errs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrBookBorrowed       = errors.New("cannot delete book that is currently borrowed")
	ErrPublishedYear      = errors.New("publishedYear is out of range")
)

// BooksNotFoundError reports book ids that do not resolve to existing books.
type BooksNotFoundError struct {
	BookIDs []int64
}

func (e *BooksNotFoundError) Error() string {
	return fmt.Sprintf("books not found: %s", joinIDs(e.BookIDs))
}

// BooksBorrowedError reports book ids that already have an active borrowing.
type BooksBorrowedError struct {
	BookIDs []int64
}

func (e *BooksBorrowedError) Error() string {
	return fmt.Sprintf("books already borrowed: %s", joinIDs(e.BookIDs))
}

// BorrowingsNotFoundError reports borrowing ids that do not exist or do not
// belong to the caller. The two cases are deliberately indistinguishable.
type BorrowingsNotFoundError struct {
	BorrowingIDs []int64
}

func (e *BorrowingsNotFoundError) Error() string {
	return fmt.Sprintf("borrowings not found: %s", joinIDs(e.BorrowingIDs))
}

// BorrowingsReturnedError reports borrowing ids that are already returned.
type BorrowingsReturnedError struct {
	BorrowingIDs []int64
}

func (e *BorrowingsReturnedError) Error() string {
	return fmt.Sprintf("borrowings already returned: %s", joinIDs(e.BorrowingIDs))
}

func joinIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ", ")
}
