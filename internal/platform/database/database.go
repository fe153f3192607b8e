package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"blogg/internal/platform/config"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver (cgo-free)
)

// Driver identifies which backend the process was started against. It is
// resolved exactly once, in Open; nothing re-inspects the connection later.
type Driver string

const (
	DriverPostgres Driver = "pgx"
	DriverSQLite   Driver = "sqlite"
)

var (
	DB     *sql.DB
	Active Driver
)

// Open resolves the backend from the connection string: a non-empty
// databaseURL selects Postgres, otherwise the SQLite file at sqlitePath is
// used. Both return a *sql.DB so everything downstream speaks database/sql.
func Open(databaseURL, sqlitePath string) (*sql.DB, Driver, error) {
	if databaseURL != "" {
		db, err := sql.Open("pgx", databaseURL)
		if err != nil {
			return nil, DriverPostgres, fmt.Errorf("open postgres: %w", err)
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
		return db, DriverPostgres, nil
	}

	db, err := sql.Open("sqlite", sqlitePath)
	if err != nil {
		return nil, DriverSQLite, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps writers serialized and makes :memory:
	// databases behave (each pooled connection would otherwise get its own).
	db.SetMaxOpenConns(1)
	return db, DriverSQLite, nil
}

func Connect() {
	var err error
	DB, Active, err = Open(config.AppConfig.DatabaseURL, config.AppConfig.SQLitePath)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}

	if err = DB.Ping(); err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	log.Printf("Connected to %s database", Active)
}

func Close() {
	if DB != nil {
		DB.Close()
		log.Println("Database connection closed.")
	}
}
