package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"gestfin/database"
	"gestfin/middleware"
	"gestfin/models"
)

// Chart-of-account entries are called "plans" on the HTTP surface.

type planRequest struct {
	Description string `json:"description"`
	CategoryID  int64  `json:"category_id"`
}

func GetPlans(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r)

	rows, err := database.DB.Query(
		"SELECT id, description, category_id, user_id FROM chart_of_accounts WHERE user_id = ?",
		userID,
	)
	if err != nil {
		log.Printf("Error listing plans: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	defer rows.Close()

	plans := []models.ChartOfAccount{}
	for rows.Next() {
		var p models.ChartOfAccount
		if err := rows.Scan(&p.ID, &p.Description, &p.CategoryID, &p.UserID); err != nil {
			log.Printf("Error scanning plan: %v", err)
			respondError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		plans = append(plans, p)
	}

	respondJSON(w, http.StatusOK, plans)
}

func AddPlan(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r)

	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Description == "" {
		respondError(w, http.StatusBadRequest, "description is required")
		return
	}
	if req.CategoryID == 0 {
		respondError(w, http.StatusBadRequest, "category id is required")
		return
	}
	if !planCategoryExists(w, req.CategoryID, userID) {
		return
	}

	res, err := database.DB.Exec(
		"INSERT INTO chart_of_accounts (description, category_id, user_id) VALUES (?, ?, ?)",
		req.Description, req.CategoryID, userID,
	)
	if err != nil {
		log.Printf("Error creating plan: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	id, _ := res.LastInsertId()
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "chart of account created",
		"plan": models.ChartOfAccount{
			ID:          id,
			Description: req.Description,
			CategoryID:  req.CategoryID,
			UserID:      userID,
		},
	})
}

func UpdatePlan(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r)
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid plan id")
		return
	}

	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Description == "" || req.CategoryID == 0 {
		respondError(w, http.StatusBadRequest, "description and category id are required")
		return
	}

	if !planExists(w, id, userID) {
		return
	}
	if !planCategoryExists(w, req.CategoryID, userID) {
		return
	}

	_, err = database.DB.Exec(
		"UPDATE chart_of_accounts SET description = ?, category_id = ? WHERE id = ? AND user_id = ?",
		req.Description, req.CategoryID, id, userID,
	)
	if err != nil {
		log.Printf("Error updating plan: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "chart of account updated"})
}

func DeletePlan(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r)
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid plan id")
		return
	}

	if !planExists(w, id, userID) {
		return
	}

	var refs int
	err = database.DB.QueryRow(
		"SELECT COUNT(*) FROM transactions WHERE chart_of_account_id = ?", id,
	).Scan(&refs)
	if err != nil {
		log.Printf("Error counting plan references: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if refs > 0 {
		respondError(w, http.StatusBadRequest, "chart of account is referenced by transactions")
		return
	}

	_, err = database.DB.Exec("DELETE FROM chart_of_accounts WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		log.Printf("Error deleting plan: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "chart of account deleted"})
}

func planExists(w http.ResponseWriter, id, userID int64) bool {
	var one int
	err := database.DB.QueryRow(
		"SELECT 1 FROM chart_of_accounts WHERE id = ? AND user_id = ?", id, userID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		respondError(w, http.StatusNotFound, "chart of account not found")
		return false
	}
	if err != nil {
		log.Printf("Error reading plan: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return false
	}
	return true
}

func planCategoryExists(w http.ResponseWriter, id, userID int64) bool {
	var one int
	err := database.DB.QueryRow(
		"SELECT 1 FROM categories WHERE id = ? AND user_id = ?", id, userID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		respondError(w, http.StatusNotFound, "category not found")
		return false
	}
	if err != nil {
		log.Printf("Error reading category: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return false
	}
	return true
}
