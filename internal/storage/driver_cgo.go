//go:build cgo_sqlite

package storage

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

const sqliteDriverName = "sqlite3"

func isSQLiteUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
