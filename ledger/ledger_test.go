package ledger

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"gestfin/database"
)

// newTestDB opens a file-backed sqlite database with the same DSN options
// as production, so locking behavior matches what the server sees.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ledger.db")
	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_busy_timeout=10000&_txlock=immediate&_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	db.SetMaxOpenConns(5)
	require.NoError(t, database.CreateSchema(db))
	return db
}

func seedUser(t *testing.T, db *sql.DB, email string) int64 {
	t.Helper()

	res, err := db.Exec(
		"INSERT INTO users (name, email, password) VALUES (?, ?, ?)",
		"Test User", email, "x",
	)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func seedBank(t *testing.T, db *sql.DB, userID int64, name, balance string) int64 {
	t.Helper()

	res, err := db.Exec(`
		INSERT INTO banks (name, initial_balance, current_balance, start_date, user_id)
		VALUES (?, ?, ?, ?, ?)
	`, name, balance, balance, "2024-01-01", userID)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func seedChart(t *testing.T, db *sql.DB, userID int64, description string) int64 {
	t.Helper()

	res, err := db.Exec(
		"INSERT INTO categories (description, dre_range, user_id) VALUES (?, ?, ?)",
		description+" category", "1-100", userID,
	)
	require.NoError(t, err)
	catID, err := res.LastInsertId()
	require.NoError(t, err)

	res, err = db.Exec(
		"INSERT INTO chart_of_accounts (description, category_id, user_id) VALUES (?, ?, ?)",
		description, catID, userID,
	)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func bankBalance(t *testing.T, db *sql.DB, bankID int64) decimal.Decimal {
	t.Helper()

	var balance decimal.Decimal
	err := db.QueryRow("SELECT current_balance FROM banks WHERE id = ?", bankID).Scan(&balance)
	require.NoError(t, err)
	return balance
}

func requireBalance(t *testing.T, db *sql.DB, bankID int64, want string) {
	t.Helper()

	got := bankBalance(t, db, bankID)
	require.Truef(t, got.Equal(decimal.RequireFromString(want)),
		"bank %d balance = %s, want %s", bankID, got, want)
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func transactionInput(bankID, chartID int64, typ, value string) TransactionInput {
	return TransactionInput{
		DueDate:          "2024-03-01",
		PaymentDate:      "2024-03-05",
		Type:             typ,
		Description:      fmt.Sprintf("%s of %s", typ, value),
		Value:            dec(value),
		BankID:           bankID,
		ChartOfAccountID: chartID,
	}
}
