package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"gestfin/database"
	"gestfin/models"
)

func TestAddTransaction(t *testing.T) {
	svc := SetupTestDB()
	defer CleanupTestDB()

	bankID := seedTestBank("Checking", "1000")
	catID := seedTestCategory("Operating")
	planID := seedTestPlan("Salary", catID)

	h := NewTransactionHandler(svc)
	req := NewAuthenticatedRequest("POST", "/transactions", map[string]interface{}{
		"dueDate":             "2024-03-01",
		"paymentDate":         "2024-03-05",
		"type":                "Income",
		"description":         "March salary",
		"value":               "3500.00",
		"bank_id":             bankID,
		"chart_of_account_id": planID,
	})
	w := httptest.NewRecorder()

	h.AddTransaction(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status code %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}

	var count int
	err := database.DB.QueryRow(
		"SELECT COUNT(*) FROM transactions WHERE description = ?", "March salary",
	).Scan(&count)
	if err != nil {
		t.Fatalf("Error checking transaction: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 transaction, got %d", count)
	}

	if got := testBankBalance(bankID); !got.Equal(decimal.RequireFromString("4500")) {
		t.Errorf("Expected balance 4500, got %s", got)
	}
}

func TestAddTransactionInvalidType(t *testing.T) {
	svc := SetupTestDB()
	defer CleanupTestDB()

	bankID := seedTestBank("Checking", "1000")
	catID := seedTestCategory("Operating")
	planID := seedTestPlan("Salary", catID)

	h := NewTransactionHandler(svc)
	req := NewAuthenticatedRequest("POST", "/transactions", map[string]interface{}{
		"dueDate":             "2024-03-01",
		"paymentDate":         "2024-03-05",
		"type":                "Dividend",
		"description":         "bad type",
		"value":               "100",
		"bank_id":             bankID,
		"chart_of_account_id": planID,
	})
	w := httptest.NewRecorder()

	h.AddTransaction(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, w.Code)
	}
	if got := testBankBalance(bankID); !got.Equal(decimal.RequireFromString("1000")) {
		t.Errorf("Expected balance unchanged at 1000, got %s", got)
	}
}

func TestUpdateTransaction(t *testing.T) {
	svc := SetupTestDB()
	defer CleanupTestDB()

	bankID := seedTestBank("Checking", "1000")
	catID := seedTestCategory("Operating")
	planID := seedTestPlan("Salary", catID)

	h := NewTransactionHandler(svc)
	req := NewAuthenticatedRequest("POST", "/transactions", map[string]interface{}{
		"dueDate":             "2024-03-01",
		"paymentDate":         "2024-03-05",
		"type":                "Income",
		"description":         "salary",
		"value":               "100",
		"bank_id":             bankID,
		"chart_of_account_id": planID,
	})
	w := httptest.NewRecorder()
	h.AddTransaction(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status code %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}

	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("Error decoding response: %v", err)
	}

	req = NewAuthenticatedRequest("PUT", fmt.Sprintf("/transactions/%d", created.ID), map[string]interface{}{
		"dueDate":             "2024-03-01",
		"paymentDate":         "2024-03-05",
		"type":                "Income",
		"description":         "salary corrected",
		"value":               "150",
		"bank_id":             bankID,
		"chart_of_account_id": planID,
	})
	req = WithURLVar(req, "id", fmt.Sprintf("%d", created.ID))
	w = httptest.NewRecorder()

	h.UpdateTransaction(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if got := testBankBalance(bankID); !got.Equal(decimal.RequireFromString("1150")) {
		t.Errorf("Expected balance 1150, got %s", got)
	}
}

func TestDeleteTransaction(t *testing.T) {
	svc := SetupTestDB()
	defer CleanupTestDB()

	bankID := seedTestBank("Checking", "1000")
	catID := seedTestCategory("Operating")
	planID := seedTestPlan("Salary", catID)

	h := NewTransactionHandler(svc)
	req := NewAuthenticatedRequest("POST", "/transactions", map[string]interface{}{
		"dueDate":             "2024-03-01",
		"paymentDate":         "2024-03-05",
		"type":                "Expense",
		"description":         "groceries",
		"value":               "40",
		"bank_id":             bankID,
		"chart_of_account_id": planID,
	})
	w := httptest.NewRecorder()
	h.AddTransaction(w, req)

	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("Error decoding response: %v", err)
	}

	req = NewAuthenticatedRequest("DELETE", fmt.Sprintf("/transactions/%d", created.ID), nil)
	req = WithURLVar(req, "id", fmt.Sprintf("%d", created.ID))
	w = httptest.NewRecorder()

	h.DeleteTransaction(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if got := testBankBalance(bankID); !got.Equal(decimal.RequireFromString("1000")) {
		t.Errorf("Expected balance restored to 1000, got %s", got)
	}
}

func TestDeleteTransactionNotFound(t *testing.T) {
	svc := SetupTestDB()
	defer CleanupTestDB()

	h := NewTransactionHandler(svc)
	req := NewAuthenticatedRequest("DELETE", "/transactions/42", nil)
	req = WithURLVar(req, "id", "42")
	w := httptest.NewRecorder()

	h.DeleteTransaction(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status code %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestGetTransactionsFiltered(t *testing.T) {
	svc := SetupTestDB()
	defer CleanupTestDB()

	bankID := seedTestBank("Checking", "1000")
	catID := seedTestCategory("Operating")
	planID := seedTestPlan("Salary", catID)

	insert := func(dueDate, paymentDate, description string) {
		_, err := database.DB.Exec(`
			INSERT INTO transactions (due_date, payment_date, type, description, value, user_id, bank_id, chart_of_account_id)
			VALUES (?, ?, 'Income', ?, 10, ?, ?, ?)
		`, dueDate, paymentDate, description, TestUserID, bankID, planID)
		if err != nil {
			t.Fatal(err)
		}
	}
	insert("2024-03-01", "2024-03-05", "march")
	insert("2024-03-20", "2024-04-02", "paid in april")
	insert("2023-03-10", "2023-03-10", "last year")

	h := NewTransactionHandler(svc)
	req := NewAuthenticatedRequest("GET", "/transactions?year=2024&month=3", nil)
	w := httptest.NewRecorder()

	h.GetTransactions(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, w.Code)
	}

	var response []models.Transaction
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Error decoding response: %v", err)
	}
	if len(response) != 1 {
		t.Fatalf("Expected 1 transaction, got %d", len(response))
	}
	if response[0].Description != "march" {
		t.Errorf("Expected transaction 'march', got '%s'", response[0].Description)
	}

	// The due-date listing keys the same filter on due_date instead.
	req = NewAuthenticatedRequest("GET", "/transactions-dueDate?year=2024&month=3", nil)
	w = httptest.NewRecorder()

	h.GetTransactionsByDueDate(w, req)

	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Error decoding response: %v", err)
	}
	if len(response) != 2 {
		t.Errorf("Expected 2 transactions by due date, got %d", len(response))
	}
}
