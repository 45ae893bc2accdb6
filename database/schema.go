package database

import "database/sql"

// CreateSchema creates all tables if they don't exist. Dates are stored as
// "YYYY-MM-DD" strings; monetary values as NUMERIC.
func CreateSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS banks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			initial_balance NUMERIC NOT NULL DEFAULT 0,
			current_balance NUMERIC NOT NULL DEFAULT 0,
			start_date TEXT NOT NULL,
			user_id INTEGER NOT NULL REFERENCES users(id)
		);`,
		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			description TEXT NOT NULL,
			dre_range TEXT NOT NULL,
			user_id INTEGER NOT NULL REFERENCES users(id)
		);`,
		`CREATE TABLE IF NOT EXISTS chart_of_accounts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			description TEXT NOT NULL,
			category_id INTEGER NOT NULL REFERENCES categories(id),
			user_id INTEGER NOT NULL REFERENCES users(id)
		);`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			due_date TEXT NOT NULL,
			payment_date TEXT,
			type TEXT NOT NULL,
			description TEXT NOT NULL,
			value NUMERIC NOT NULL,
			user_id INTEGER NOT NULL REFERENCES users(id),
			bank_id INTEGER NOT NULL REFERENCES banks(id),
			chart_of_account_id INTEGER NOT NULL REFERENCES chart_of_accounts(id)
		);`,
		`CREATE TABLE IF NOT EXISTS transfers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			from_bank_id INTEGER NOT NULL REFERENCES banks(id),
			to_bank_id INTEGER NOT NULL REFERENCES banks(id),
			value NUMERIC NOT NULL,
			date TEXT NOT NULL,
			description TEXT NOT NULL,
			user_id INTEGER NOT NULL REFERENCES users(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_banks_user ON banks(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_bank ON transactions(bank_id);`,
		`CREATE INDEX IF NOT EXISTS idx_transfers_user ON transfers(user_id);`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
