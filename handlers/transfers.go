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

// TransferHandler serves the transfer endpoints through the ledger's
// posting protocol.
type TransferHandler struct {
	svc *ledger.Service
}

func NewTransferHandler(svc *ledger.Service) *TransferHandler {
	return &TransferHandler{svc: svc}
}

type transferRequest struct {
	FromBankID  int64           `json:"from_bank_id"`
	ToBankID    int64           `json:"to_bank_id"`
	Value       decimal.Decimal `json:"value"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
}

func (req *transferRequest) input() ledger.TransferInput {
	return ledger.TransferInput{
		FromBankID:  req.FromBankID,
		ToBankID:    req.ToBankID,
		Value:       req.Value,
		Date:        req.Date,
		Description: req.Description,
	}
}

func (h *TransferHandler) GetTransfers(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r)

	rows, err := database.DB.Query(`
		SELECT id, from_bank_id, to_bank_id, value, date, description, user_id
		FROM transfers WHERE user_id = ? ORDER BY date DESC, id DESC
	`, userID)
	if err != nil {
		log.Printf("Error listing transfers: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	defer rows.Close()

	transfers := []models.Transfer{}
	for rows.Next() {
		var t models.Transfer
		err := rows.Scan(&t.ID, &t.FromBankID, &t.ToBankID, &t.Value, &t.Date, &t.Description, &t.UserID)
		if err != nil {
			log.Printf("Error scanning transfer: %v", err)
			respondError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		transfers = append(transfers, t)
	}

	respondJSON(w, http.StatusOK, transfers)
}

func (h *TransferHandler) AddTransfer(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r)

	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tr, err := h.svc.CreateTransfer(r.Context(), userID, req.input())
	if err != nil {
		respondLedgerError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":      tr.ID,
		"message": "transfer created",
	})
}

func (h *TransferHandler) UpdateTransfer(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r)
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid transfer id")
		return
	}

	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.svc.UpdateTransfer(r.Context(), userID, id, req.input()); err != nil {
		respondLedgerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "transfer updated"})
}

func (h *TransferHandler) DeleteTransfer(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r)
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid transfer id")
		return
	}

	if err := h.svc.DeleteTransfer(r.Context(), userID, id); err != nil {
		respondLedgerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "transfer deleted"})
}
