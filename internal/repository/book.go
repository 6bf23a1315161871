package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libhub/library-service/internal/errs"
	"github.com/libhub/library-service/internal/model"
)

type BookRepository interface {
	CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error)
	GetBook(ctx context.Context, id int64) (model.Book, error)
	UpdateBook(ctx context.Context, id int64, req model.BookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id int64) error
	ListBooks(ctx context.Context, page, size int) (model.ListBooks, error)
	SearchBooks(ctx context.Context, query string, page, size int) (model.ListBooks, error)
}

type bookRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewBookRepository(db *sqlx.DB, log *zap.Logger) (*bookRepository, error) {
	return &bookRepository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const bookColumns = `id, title, author, genre, published_year`

func (r *bookRepository) CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error) {
	query, args, err := qb.Insert(booksTableName).
		Columns("title", "author", "genre", "published_year").
		Values(req.Title, req.Author, req.Genre, req.PublishedYear).
		Suffix("returning " + bookColumns).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		r.log.Error("CreateBook", zap.String("q", query), zap.Any("args", args))
		return model.Book{}, err
	}
	return book, nil
}

func (r *bookRepository) GetBook(ctx context.Context, id int64) (model.Book, error) {
	query, args, err := qb.Select(bookColumns).
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *bookRepository) UpdateBook(ctx context.Context, id int64, req model.BookRequest) (model.Book, error) {
	query, args, err := qb.Update(booksTableName).
		Set("title", req.Title).
		Set("author", req.Author).
		Set("genre", req.Genre).
		Set("published_year", req.PublishedYear).
		Where(sq.Eq{"id": id}).
		Suffix("returning " + bookColumns).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

// DeleteBook removes a book unless it has an active borrowing. The row lock
// keeps the check-then-delete atomic against a concurrent borrow, which
// locks the same book row.
func (r *bookRepository) DeleteBook(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	query, args, err := qb.Select("id").
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		Suffix("for update").
		ToSql()
	if err != nil {
		return err
	}
	var bookID int64
	if err := tx.GetContext(ctx, &bookID, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errs.ErrNotFound
		}
		return err
	}

	query, args, err = qb.Select("count(*)").
		From(borrowingsTableName).
		Where(sq.Eq{"book_id": id, "is_returned": false}).
		ToSql()
	if err != nil {
		return err
	}
	var active int
	if err := tx.GetContext(ctx, &active, query, args...); err != nil {
		return err
	}
	if active > 0 {
		return errs.ErrBookBorrowed
	}

	query, args, err = qb.Delete(booksTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *bookRepository) ListBooks(ctx context.Context, page, size int) (model.ListBooks, error) {
	q := qb.Select(bookColumns).
		From(booksTableName).
		OrderBy("title asc").
		Limit(uint64(size)).
		Offset(uint64((page - 1) * size))

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}

	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return model.ListBooks{}, err
	}

	total, err := r.countBooks(ctx, nil)
	if err != nil {
		return model.ListBooks{}, err
	}

	return model.ListBooks{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: total,
		},
		Items: books,
	}, nil
}

func (r *bookRepository) SearchBooks(ctx context.Context, query string, page, size int) (model.ListBooks, error) {
	match := sq.Or{
		sq.ILike{"title": "%" + query + "%"},
		sq.ILike{"author": "%" + query + "%"},
	}

	sqlQuery, args, err := qb.Select(bookColumns).
		From(booksTableName).
		Where(match).
		OrderBy("title asc").
		Limit(uint64(size)).
		Offset(uint64((page - 1) * size)).
		ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}
	r.log.Debug("SearchBooks", zap.String("query", sqlQuery), zap.Any("args", args))

	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, sqlQuery, args...); err != nil {
		return model.ListBooks{}, err
	}

	total, err := r.countBooks(ctx, match)
	if err != nil {
		return model.ListBooks{}, err
	}

	return model.ListBooks{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: total,
		},
		Items: books,
	}, nil
}

func (r *bookRepository) countBooks(ctx context.Context, where sq.Sqlizer) (int, error) {
	q := qb.Select("count(*)").From(booksTableName)
	if where != nil {
		q = q.Where(where)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, err
	}
	return total, nil
}
