package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"gestfin/ledger"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondLedgerError maps a ledger error kind to a status code. Store
// failures are logged in full but surfaced generically.
func respondLedgerError(w http.ResponseWriter, err error) {
	switch ledger.KindOf(err) {
	case ledger.KindValidation, ledger.KindInvalidType, ledger.KindBatchRow:
		respondError(w, http.StatusBadRequest, err.Error())
	case ledger.KindNotFound:
		respondError(w, http.StatusNotFound, err.Error())
	default:
		log.Printf("ledger error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
