package model

import (
	"time"
)

type User struct {
	ID             int64     `json:"id" db:"id"`
	Username       string    `json:"username" db:"username"`
	Password       string    `json:"-" db:"password"`
	IsAdmin        bool      `json:"isAdmin" db:"is_admin"`
	EncryptedNotes *string   `json:"-" db:"encrypted_notes"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// UserInfo is the public projection of a User.
type UserInfo struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	IsAdmin  bool   `json:"isAdmin" db:"is_admin"`
}

func (u User) Info() UserInfo {
	return UserInfo{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}
}

type Book struct {
	ID            int64  `json:"id" db:"id"`
	Title         string `json:"title" db:"title"`
	Author        string `json:"author" db:"author"`
	Genre         string `json:"genre" db:"genre"`
	PublishedYear int    `json:"publishedYear" db:"published_year"`
}

type Borrowing struct {
	ID         int64      `json:"id" db:"id"`
	UserID     int64      `json:"userId" db:"user_id"`
	BookID     int64      `json:"bookId" db:"book_id"`
	BorrowDate time.Time  `json:"borrowDate" db:"borrow_date"`
	ReturnDate *time.Time `json:"returnDate" db:"return_date"`
	IsReturned bool       `json:"isReturned" db:"is_returned"`
}

// UserBorrowing is a borrowing with its book inlined.
type UserBorrowing struct {
	Borrowing
	Book Book `json:"book" db:"book"`
}

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type ListBooks struct {
	Paging `json:",inline"`
	Items  []Book `json:"items"`
}

type BorrowingCounts struct {
	Total    int `db:"total"`
	Active   int `db:"active"`
	Returned int `db:"returned"`
}

type UserBorrowCount struct {
	User        UserInfo `json:"user" db:"user"`
	BorrowCount int      `json:"borrowCount" db:"borrow_count"`
}

type BookBorrowCount struct {
	Book        Book `json:"book" db:"book"`
	BorrowCount int  `json:"borrowCount" db:"borrow_count"`
}

type BorrowingStats struct {
	TotalBorrowings    int               `json:"totalBorrowings"`
	ActiveBorrowings   int               `json:"activeBorrowings"`
	ReturnedBorrowings int               `json:"returnedBorrowings"`
	MostActiveUsers    []UserBorrowCount `json:"mostActiveUsers"`
	MostBorrowedBooks  []BookBorrowCount `json:"mostBorrowedBooks"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,alphanum,min=3,max=30"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User  UserInfo `json:"user"`
	Token string   `json:"token"`
}

type Profile struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
	Notes     *string   `json:"notes"`
}

type NotesRequest struct {
	Notes string `json:"notes" validate:"required"`
}

type PromoteRequest struct {
	UserID int64 `json:"userId" validate:"required,gt=0"`
}

type BookRequest struct {
	Title         string `json:"title" validate:"required,max=255"`
	Author        string `json:"author" validate:"required,max=255"`
	Genre         string `json:"genre" validate:"required,max=100"`
	PublishedYear int    `json:"publishedYear" validate:"required,min=1000"`
}

type BorrowRequest struct {
	BookIDs []int64 `json:"bookIds" validate:"required,min=1,unique,dive,gt=0"`
}

type ReturnRequest struct {
	BorrowingIDs []int64 `json:"borrowingIds" validate:"required,min=1,unique,dive,gt=0"`
}

type BorrowResponse struct {
	Message    string      `json:"message"`
	Borrowings []Borrowing `json:"borrowings"`
}

type UserBorrowingsResponse struct {
	Borrowings []UserBorrowing `json:"borrowings"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

const (
	EventBorrow = "BORROW"
	EventReturn = "RETURN"
)

// BorrowingEvent is published to the events topic after successful
// borrow and return operations.
type BorrowingEvent struct {
	EventType string    `json:"eventType"`
	UserID    int64     `json:"userId"`
	IDs       []int64   `json:"ids"`
	Timestamp time.Time `json:"timestamp"`
}
