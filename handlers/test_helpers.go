package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gorilla/mux"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"gestfin/database"
	"gestfin/ledger"
	"gestfin/middleware"
)

// TestUserID is the id of the user SetupTestDB seeds; handler tests run as
// this user.
var TestUserID int64

// SetupTestDB points database.DB at a fresh in-memory store with the full
// schema and one seeded user, and returns a ledger service over it. The pool
// is pinned to one connection so every query sees the same memory database.
func SetupTestDB() *ledger.Service {
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		panic(err)
	}
	db.SetMaxOpenConns(1)
	database.DB = db

	if err := database.CreateSchema(db); err != nil {
		panic(err)
	}

	res, err := db.Exec(
		"INSERT INTO users (name, email, password) VALUES (?, ?, ?)",
		"Test User", "test@example.com", "x",
	)
	if err != nil {
		panic(err)
	}
	TestUserID, err = res.LastInsertId()
	if err != nil {
		panic(err)
	}

	return ledger.NewService(db)
}

// CleanupTestDB closes the test database connection
func CleanupTestDB() {
	if database.DB != nil {
		database.DB.Close()
	}
}

// SetupTestAuth adds authentication context to the request
func SetupTestAuth(req *http.Request) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, TestUserID)
	return req.WithContext(ctx)
}

// NewAuthenticatedRequest creates a request with a JSON body (when given)
// and the test user already authenticated.
func NewAuthenticatedRequest(method, url string, body interface{}) *http.Request {
	var req *http.Request
	if body != nil {
		buf, _ := json.Marshal(body)
		req = httptest.NewRequest(method, url, bytes.NewBuffer(buf))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	return SetupTestAuth(req)
}

// WithURLVar injects a mux path variable, for handlers that read {id}.
func WithURLVar(req *http.Request, name, value string) *http.Request {
	return mux.SetURLVars(req, map[string]string{name: value})
}

func seedTestBank(name, balance string) int64 {
	res, err := database.DB.Exec(`
		INSERT INTO banks (name, initial_balance, current_balance, start_date, user_id)
		VALUES (?, ?, ?, ?, ?)
	`, name, balance, balance, "2024-01-01", TestUserID)
	if err != nil {
		panic(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		panic(err)
	}
	return id
}

func seedTestCategory(description string) int64 {
	res, err := database.DB.Exec(
		"INSERT INTO categories (description, dre_range, user_id) VALUES (?, ?, ?)",
		description, "1-100", TestUserID,
	)
	if err != nil {
		panic(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		panic(err)
	}
	return id
}

func seedTestPlan(description string, categoryID int64) int64 {
	res, err := database.DB.Exec(
		"INSERT INTO chart_of_accounts (description, category_id, user_id) VALUES (?, ?, ?)",
		description, categoryID, TestUserID,
	)
	if err != nil {
		panic(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		panic(err)
	}
	return id
}

func testBankBalance(bankID int64) decimal.Decimal {
	var balance decimal.Decimal
	err := database.DB.QueryRow(
		"SELECT current_balance FROM banks WHERE id = ?", bankID,
	).Scan(&balance)
	if err != nil {
		panic(err)
	}
	return balance
}
