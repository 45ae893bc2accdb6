package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"gestfin/importer"
	"gestfin/ledger"
	"gestfin/middleware"
)

const maxImportSize = 10 << 20 // 10 MiB

// ImportHandler accepts an xlsx upload and posts its rows as one
// all-or-nothing batch.
type ImportHandler struct {
	svc       *ledger.Service
	uploadDir string
}

func NewImportHandler(svc *ledger.Service) *ImportHandler {
	return &ImportHandler{svc: svc, uploadDir: "uploads"}
}

func (h *ImportHandler) ImportTransactions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r)

	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	if ext := filepath.Ext(header.Filename); ext != ".xlsx" {
		respondError(w, http.StatusBadRequest, "unsupported file type, expected .xlsx")
		return
	}

	path, err := h.saveUpload(file)
	if err != nil {
		log.Printf("Error saving upload: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	defer os.Remove(path)

	f, err := os.Open(path)
	if err != nil {
		log.Printf("Error reopening upload: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	defer f.Close()

	rows, err := importer.Parse(f)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid spreadsheet: %v", err))
		return
	}

	imported, err := h.svc.ImportTransactions(r.Context(), userID, rows)
	if err != nil {
		respondLedgerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "transactions imported successfully",
		"imported": imported,
	})
}

func (h *ImportHandler) saveUpload(file io.Reader) (string, error) {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(h.uploadDir, uuid.NewString()+".xlsx")
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
