package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libhub/library-service/internal/errs"
	"github.com/libhub/library-service/internal/model"
)

type BorrowingRepository interface {
	CreateBorrowings(ctx context.Context, userID int64, bookIDs []int64) ([]model.Borrowing, error)
	ReturnBorrowings(ctx context.Context, userID int64, borrowingIDs []int64) error
	UserBorrowings(ctx context.Context, userID int64, returned *bool) ([]model.UserBorrowing, error)
	BorrowingCounts(ctx context.Context) (model.BorrowingCounts, error)
	MostActiveUsers(ctx context.Context, limit int) ([]model.UserBorrowCount, error)
	MostBorrowedBooks(ctx context.Context, limit int) ([]model.BookBorrowCount, error)
}

type borrowingRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewBorrowingRepository(db *sqlx.DB, log *zap.Logger) (*borrowingRepository, error) {
	return &borrowingRepository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const borrowingColumns = `id, user_id, book_id, borrow_date, return_date, is_returned`

// CreateBorrowings creates one borrowing per requested book, all inside one
// transaction. The book rows are locked first, so two concurrent calls over
// overlapping book sets serialize per book and the active check cannot race
// with the insert.
func (r *borrowingRepository) CreateBorrowings(ctx context.Context, userID int64, bookIDs []int64) ([]model.Borrowing, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	query, args, err := qb.Select("id").
		From(booksTableName).
		Where(sq.Eq{"id": bookIDs}).
		Suffix("for update").
		ToSql()
	if err != nil {
		return nil, err
	}
	var foundIDs []int64
	if err := tx.SelectContext(ctx, &foundIDs, query, args...); err != nil {
		return nil, err
	}
	if missing := missingIDs(bookIDs, foundIDs); len(missing) > 0 {
		return nil, &errs.BooksNotFoundError{BookIDs: missing}
	}

	query, args, err = qb.Select("book_id").
		From(borrowingsTableName).
		Where(sq.Eq{"book_id": bookIDs, "is_returned": false}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var activeIDs []int64
	if err := tx.SelectContext(ctx, &activeIDs, query, args...); err != nil {
		return nil, err
	}
	if len(activeIDs) > 0 {
		return nil, &errs.BooksBorrowedError{BookIDs: activeIDs}
	}

	ins := qb.Insert(borrowingsTableName).
		Columns("user_id", "book_id", "borrow_date", "is_returned")
	now := time.Now().UTC()
	for _, bookID := range bookIDs {
		ins = ins.Values(userID, bookID, now, false)
	}
	query, args, err = ins.Suffix("returning " + borrowingColumns).ToSql()
	if err != nil {
		return nil, err
	}
	var borrowings []model.Borrowing
	if err := tx.SelectContext(ctx, &borrowings, query, args...); err != nil {
		r.log.Error("CreateBorrowings", zap.String("q", query), zap.Any("args", args))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	return borrowings, nil
}

// ReturnBorrowings marks the named borrowings returned, all or nothing.
// Borrowings of another user are reported as not found.
func (r *borrowingRepository) ReturnBorrowings(ctx context.Context, userID int64, borrowingIDs []int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	query, args, err := qb.Select("id", "is_returned").
		From(borrowingsTableName).
		Where(sq.Eq{"id": borrowingIDs, "user_id": userID}).
		Suffix("for update").
		ToSql()
	if err != nil {
		return err
	}
	var rows []struct {
		ID         int64 `db:"id"`
		IsReturned bool  `db:"is_returned"`
	}
	if err := tx.SelectContext(ctx, &rows, query, args...); err != nil {
		return err
	}

	foundIDs := make([]int64, 0, len(rows))
	var returnedIDs []int64
	for _, row := range rows {
		foundIDs = append(foundIDs, row.ID)
		if row.IsReturned {
			returnedIDs = append(returnedIDs, row.ID)
		}
	}
	if missing := missingIDs(borrowingIDs, foundIDs); len(missing) > 0 {
		return &errs.BorrowingsNotFoundError{BorrowingIDs: missing}
	}
	if len(returnedIDs) > 0 {
		return &errs.BorrowingsReturnedError{BorrowingIDs: returnedIDs}
	}

	query, args, err = qb.Update(borrowingsTableName).
		Set("return_date", time.Now().UTC()).
		Set("is_returned", true).
		Where(sq.Eq{"id": borrowingIDs}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *borrowingRepository) UserBorrowings(ctx context.Context, userID int64, returned *bool) ([]model.UserBorrowing, error) {
	q := qb.Select(
		"b.id", "b.user_id", "b.book_id", "b.borrow_date", "b.return_date", "b.is_returned",
		`bk.id as "book.id"`, `bk.title as "book.title"`, `bk.author as "book.author"`,
		`bk.genre as "book.genre"`, `bk.published_year as "book.published_year"`).
		From(borrowingsTableName + " b").
		Join(booksTableName + " bk on bk.id = b.book_id").
		Where(sq.Eq{"b.user_id": userID}).
		OrderBy("b.borrow_date desc")

	if returned != nil {
		q = q.Where(sq.Eq{"b.is_returned": *returned})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	var borrowings []model.UserBorrowing
	if err := r.db.SelectContext(ctx, &borrowings, query, args...); err != nil {
		return nil, err
	}
	return borrowings, nil
}

func (r *borrowingRepository) BorrowingCounts(ctx context.Context) (model.BorrowingCounts, error) {
	const q = `
	select count(*)                                    as total,
	       count(*) filter (where not is_returned)     as active,
	       count(*) filter (where is_returned)         as returned
	from borrowings
`
	var counts model.BorrowingCounts
	if err := r.db.GetContext(ctx, &counts, q); err != nil {
		return model.BorrowingCounts{}, err
	}
	return counts, nil
}

// MostActiveUsers returns the top users by borrowing count. Ties break by
// ascending user id.
func (r *borrowingRepository) MostActiveUsers(ctx context.Context, limit int) ([]model.UserBorrowCount, error) {
	query, args, err := qb.Select(
		`u.id as "user.id"`, `u.username as "user.username"`, `u.is_admin as "user.is_admin"`,
		"count(*) as borrow_count").
		From(borrowingsTableName + " b").
		Join(usersTableName + " u on u.id = b.user_id").
		GroupBy("u.id", "u.username", "u.is_admin").
		OrderBy("borrow_count desc", "u.id asc").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	var stats []model.UserBorrowCount
	if err := r.db.SelectContext(ctx, &stats, query, args...); err != nil {
		return nil, err
	}
	return stats, nil
}

// MostBorrowedBooks returns the top books by borrowing count. Ties break by
// ascending book id.
func (r *borrowingRepository) MostBorrowedBooks(ctx context.Context, limit int) ([]model.BookBorrowCount, error) {
	query, args, err := qb.Select(
		`bk.id as "book.id"`, `bk.title as "book.title"`, `bk.author as "book.author"`,
		`bk.genre as "book.genre"`, `bk.published_year as "book.published_year"`,
		"count(*) as borrow_count").
		From(borrowingsTableName + " b").
		Join(booksTableName + " bk on bk.id = b.book_id").
		GroupBy("bk.id", "bk.title", "bk.author", "bk.genre", "bk.published_year").
		OrderBy("borrow_count desc", "bk.id asc").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	var stats []model.BookBorrowCount
	if err := r.db.SelectContext(ctx, &stats, query, args...); err != nil {
		return nil, err
	}
	return stats, nil
}

func missingIDs(want, got []int64) []int64 {
	found := make(map[int64]struct{}, len(got))
	for _, id := range got {
		found[id] = struct{}{}
	}
	var missing []int64
	for _, id := range want {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
