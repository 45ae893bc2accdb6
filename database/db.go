package database

import (
	"database/sql"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var DB *sql.DB

func InitDB() error {
	var dbPath string
	if p := os.Getenv("DB_PATH"); p != "" {
		dbPath = p
	} else if os.Getenv("TEST_DB") == "1" {
		// We're running tests, use in-memory database
		dbPath = ":memory:"
	} else {
		// Local development
		dbPath = "./gestfin.db"
	}

	var err error
	// _txlock=immediate makes every transaction take the write lock at BEGIN,
	// so posting units never interleave their read-modify-write of balances.
	// Pragmas go in the DSN so every pooled connection gets them, not just
	// the one a PRAGMA statement happens to run on.
	dsn := dbPath + "?_journal=WAL&_busy_timeout=10000&_txlock=immediate&_foreign_keys=on"
	DB, err = sql.Open("sqlite3", dsn)
	if err != nil {
		return err
	}

	DB.SetMaxOpenConns(5)
	DB.SetMaxIdleConns(5)
	DB.SetConnMaxLifetime(time.Minute * 5)

	err = DB.Ping()
	if err != nil {
		return err
	}

	return CreateSchema(DB)
}

// ResetDB drops every table so a fresh schema can be created on the next
// InitDB. Used by the -reset-db flag.
func ResetDB() error {
	tables := []string{
		"transfers",
		"transactions",
		"chart_of_accounts",
		"categories",
		"banks",
		"users",
	}
	for _, table := range tables {
		if _, err := DB.Exec("DROP TABLE IF EXISTS " + table); err != nil {
			return err
		}
	}
	return CreateSchema(DB)
}
