// Package repository contains the data-access contracts and their Postgres
// and SQLite implementations. The implementation is picked once at startup
// from the active driver; nothing downstream branches on the backend again.
package repository

import (
	"database/sql"

	"blogg/internal/platform/database"
)

func NewUserRepository(db *sql.DB, driver database.Driver) UserRepository {
	if driver == database.DriverPostgres {
		return NewPgUserRepository(db)
	}
	return NewSQLiteUserRepository(db)
}

func NewPostRepository(db *sql.DB, driver database.Driver) PostRepository {
	if driver == database.DriverPostgres {
		return NewPgPostRepository(db)
	}
	return NewSQLitePostRepository(db)
}

func NewTodoRepository(db *sql.DB, driver database.Driver) TodoRepository {
	if driver == database.DriverPostgres {
		return NewPgTodoRepository(db)
	}
	return NewSQLiteTodoRepository(db)
}
