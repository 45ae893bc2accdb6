package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gestfin/database"
	"gestfin/models"
)

func TestAddPlan(t *testing.T) {
	SetupTestDB()
	defer CleanupTestDB()

	catID := seedTestCategory("Operating Expenses")

	req := NewAuthenticatedRequest("POST", "/plans", map[string]interface{}{
		"description": "Office Supplies",
		"category_id": catID,
	})
	w := httptest.NewRecorder()

	AddPlan(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status code %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}

	var count int
	err := database.DB.QueryRow(
		"SELECT COUNT(*) FROM chart_of_accounts WHERE description = ?", "Office Supplies",
	).Scan(&count)
	if err != nil {
		t.Fatalf("Error checking plan: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 plan, got %d", count)
	}
}

func TestAddPlanUnknownCategory(t *testing.T) {
	SetupTestDB()
	defer CleanupTestDB()

	req := NewAuthenticatedRequest("POST", "/plans", map[string]interface{}{
		"description": "Office Supplies",
		"category_id": 9999,
	})
	w := httptest.NewRecorder()

	AddPlan(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status code %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestGetPlans(t *testing.T) {
	SetupTestDB()
	defer CleanupTestDB()

	catID := seedTestCategory("Operating Expenses")
	seedTestPlan("Office Supplies", catID)

	req := NewAuthenticatedRequest("GET", "/plans", nil)
	w := httptest.NewRecorder()

	GetPlans(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, w.Code)
	}

	var response []models.ChartOfAccount
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Error decoding response: %v", err)
	}
	if len(response) != 1 {
		t.Fatalf("Expected 1 plan, got %d", len(response))
	}
	if response[0].Description != "Office Supplies" {
		t.Errorf("Expected plan 'Office Supplies', got '%s'", response[0].Description)
	}
}

func TestDeletePlanReferencedByTransaction(t *testing.T) {
	SetupTestDB()
	defer CleanupTestDB()

	bankID := seedTestBank("Checking", "1000")
	catID := seedTestCategory("Operating Expenses")
	planID := seedTestPlan("Office Supplies", catID)

	_, err := database.DB.Exec(`
		INSERT INTO transactions (due_date, payment_date, type, description, value, user_id, bank_id, chart_of_account_id)
		VALUES ('2024-03-01', '2024-03-05', 'Expense', 'paper', 10, ?, ?, ?)
	`, TestUserID, bankID, planID)
	if err != nil {
		t.Fatal(err)
	}

	req := NewAuthenticatedRequest("DELETE", fmt.Sprintf("/plans/%d", planID), nil)
	req = WithURLVar(req, "id", fmt.Sprintf("%d", planID))
	w := httptest.NewRecorder()

	DeletePlan(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, w.Code)
	}
}
