package store

import (
	"fmt"
	"os"
	"path"

	"github.com/KathiraveluLab/BHV/internal/boot"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Open connects to the application database, creating the schema on
// first use. Consistency relies on sqlite's per-row atomicity; every
// write in this package touches a single row.
func Open(config *boot.Config) (*sqlx.DB, error) {
	if err := os.MkdirAll(config.DataDirectory, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbName := path.Join(config.DataDirectory, "bhv.db")
	db, err := sqlx.Connect("sqlite3", "file:"+dbName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return db, nil
}

// OpenInMemory is used by tests.
func OpenInMemory() (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// an in-memory database exists per connection
	db.SetMaxOpenConns(1)
	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}
	return db, nil
}

func createTables(db *sqlx.DB) error {
	_, err := db.Exec(`create table if not exists identity(
		ID          text not null primary key,
		Email       text not null unique,
		Credential  text null,
		StoredRole  text not null default 'user',
		IsVerified  boolean not null default false,
		FederatedID text null unique,
		DisplayName text not null default '',
		CreatedAt   DATETIME not null
	)`)
	if err != nil {
		return fmt.Errorf("creating identity table: %w", err)
	}

	_, err = db.Exec(`create table if not exists one_time_code(
		Email     text not null,
		Code      text not null,
		CreatedAt DATETIME not null,
		Used      boolean not null default false
	)`)
	if err != nil {
		return fmt.Errorf("creating one_time_code table: %w", err)
	}

	_, err = db.Exec(`create table if not exists upload(
		ID          text not null primary key,
		UserID      text not null,
		Title       text not null,
		Description text not null,
		Sentiment   text not null,
		ImageRef    text not null,
		AudioRef    text null,
		CreatedAt   DATETIME not null
	)`)
	if err != nil {
		return fmt.Errorf("creating upload table: %w", err)
	}

	_, err = db.Exec(`create table if not exists chat_message(
		ID         text not null primary key,
		UserID     text not null,
		Body       text not null,
		SenderRole text not null,
		CreatedAt  DATETIME not null
	)`)
	if err != nil {
		return fmt.Errorf("creating chat_message table: %w", err)
	}

	return nil
}
