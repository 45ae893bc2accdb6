package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"gestfin/database"
	"gestfin/ledger"
	"gestfin/middleware"
	"gestfin/models"
)

// TransactionHandler serves the transaction endpoints. Create, update and
// delete delegate to the ledger's posting protocol; listing is plain reads.
type TransactionHandler struct {
	svc *ledger.Service
}

func NewTransactionHandler(svc *ledger.Service) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

type transactionRequest struct {
	DueDate          string          `json:"dueDate"`
	PaymentDate      string          `json:"paymentDate"`
	Type             string          `json:"type"`
	Description      string          `json:"description"`
	Value            decimal.Decimal `json:"value"`
	BankID           int64           `json:"bank_id"`
	ChartOfAccountID int64           `json:"chart_of_account_id"`
}

func (req *transactionRequest) input() ledger.TransactionInput {
	return ledger.TransactionInput{
		DueDate:          req.DueDate,
		PaymentDate:      req.PaymentDate,
		Type:             req.Type,
		Description:      req.Description,
		Value:            req.Value,
		BankID:           req.BankID,
		ChartOfAccountID: req.ChartOfAccountID,
	}
}

// GetTransactions lists the caller's transactions, optionally filtered by
// month/year of the payment date.
func (h *TransactionHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	h.listTransactions(w, r, "payment_date")
}

// GetTransactionsByDueDate is the same listing filtered on the due date.
func (h *TransactionHandler) GetTransactionsByDueDate(w http.ResponseWriter, r *http.Request) {
	h.listTransactions(w, r, "due_date")
}

func (h *TransactionHandler) listTransactions(w http.ResponseWriter, r *http.Request, dateColumn string) {
	userID := middleware.GetUserIDFromContext(r)

	// dateColumn is one of two fixed column names, never user input.
	query := `
		SELECT id, due_date, payment_date, type, description, value, user_id, bank_id, chart_of_account_id
		FROM transactions WHERE user_id = ?
	`
	args := []interface{}{userID}

	if year := r.URL.Query().Get("year"); year != "" {
		query += fmt.Sprintf(" AND substr(%s, 1, 4) = ?", dateColumn)
		args = append(args, year)
	}
	if month := r.URL.Query().Get("month"); month != "" {
		if m, err := strconv.Atoi(month); err == nil {
			month = fmt.Sprintf("%02d", m)
		}
		query += fmt.Sprintf(" AND substr(%s, 6, 2) = ?", dateColumn)
		args = append(args, month)
	}
	query += " ORDER BY " + dateColumn + " DESC, id DESC"

	rows, err := database.DB.Query(query, args...)
	if err != nil {
		log.Printf("Error listing transactions: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		var paymentDate sql.NullString
		err := rows.Scan(&t.ID, &t.DueDate, &paymentDate, &t.Type, &t.Description,
			&t.Value, &t.UserID, &t.BankID, &t.ChartOfAccountID)
		if err != nil {
			log.Printf("Error scanning transaction: %v", err)
			respondError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		t.PaymentDate = paymentDate.String
		transactions = append(transactions, t)
	}

	respondJSON(w, http.StatusOK, transactions)
}

func (h *TransactionHandler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r)

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.svc.CreateTransaction(r.Context(), userID, req.input())
	if err != nil {
		respondLedgerError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":      t.ID,
		"message": "transaction created",
	})
}

func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r)
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.svc.UpdateTransaction(r.Context(), userID, id, req.input()); err != nil {
		respondLedgerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "transaction updated"})
}

func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r)
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	if err := h.svc.DeleteTransaction(r.Context(), userID, id); err != nil {
		respondLedgerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "transaction deleted"})
}
