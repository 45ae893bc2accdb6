package handlers

import (
	"encoding/json"
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

// BankHandler serves the banks CRUD. All writes go through the ledger
// service so current_balance is never mutated from a handler.
type BankHandler struct {
	svc *ledger.Service
}

func NewBankHandler(svc *ledger.Service) *BankHandler {
	return &BankHandler{svc: svc}
}

type bankRequest struct {
	Name           string          `json:"nameBank"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	StartDate      string          `json:"startDate"`
}

func (h *BankHandler) GetBanks(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r)

	rows, err := database.DB.Query(`
		SELECT id, name, initial_balance, current_balance, start_date, user_id
		FROM banks WHERE user_id = ?
	`, userID)
	if err != nil {
		log.Printf("Error listing banks: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	defer rows.Close()

	banks := []models.Bank{}
	for rows.Next() {
		var b models.Bank
		if err := rows.Scan(&b.ID, &b.Name, &b.InitialBalance, &b.CurrentBalance, &b.StartDate, &b.UserID); err != nil {
			log.Printf("Error scanning bank: %v", err)
			respondError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		banks = append(banks, b)
	}

	respondJSON(w, http.StatusOK, banks)
}

func (h *BankHandler) AddBank(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r)

	var req bankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bank, err := h.svc.CreateBank(r.Context(), userID, ledger.BankInput{
		Name:           req.Name,
		InitialBalance: req.InitialBalance,
		StartDate:      req.StartDate,
	})
	if err != nil {
		respondLedgerError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "bank created",
		"bank":    bank,
	})
}

func (h *BankHandler) UpdateBank(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r)
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid bank id")
		return
	}

	var req bankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.svc.UpdateBank(r.Context(), userID, id, ledger.BankInput{
		Name:           req.Name,
		InitialBalance: req.InitialBalance,
		StartDate:      req.StartDate,
	})
	if err != nil {
		respondLedgerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "bank updated"})
}

func (h *BankHandler) DeleteBank(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r)
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid bank id")
		return
	}

	if err := h.svc.DeleteBank(r.Context(), userID, id); err != nil {
		respondLedgerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "bank deleted"})
}
