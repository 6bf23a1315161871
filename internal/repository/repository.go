package repository

import (
	sq "github.com/Masterminds/squirrel"
)

const (
	usersTableName      = `users`
	booksTableName      = `books`
	borrowingsTableName = `borrowings`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
