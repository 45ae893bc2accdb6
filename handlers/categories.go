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

type categoryRequest struct {
	Description string `json:"description"`
	DRERange    string `json:"DRE_range"`
}

func GetCategories(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r)

	rows, err := database.DB.Query(
		"SELECT id, description, dre_range, user_id FROM categories WHERE user_id = ?",
		userID,
	)
	if err != nil {
		log.Printf("Error listing categories: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Description, &c.DRERange, &c.UserID); err != nil {
			log.Printf("Error scanning category: %v", err)
			respondError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		categories = append(categories, c)
	}

	respondJSON(w, http.StatusOK, categories)
}

func AddCategory(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r)

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Description == "" {
		respondError(w, http.StatusBadRequest, "description is required")
		return
	}
	if req.DRERange == "" {
		respondError(w, http.StatusBadRequest, "DRE range is required")
		return
	}

	res, err := database.DB.Exec(
		"INSERT INTO categories (description, dre_range, user_id) VALUES (?, ?, ?)",
		req.Description, req.DRERange, userID,
	)
	if err != nil {
		log.Printf("Error creating category: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	id, _ := res.LastInsertId()
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "category created",
		"category": models.Category{
			ID:          id,
			Description: req.Description,
			DRERange:    req.DRERange,
			UserID:      userID,
		},
	})
}

func UpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r)
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Description == "" || req.DRERange == "" {
		respondError(w, http.StatusBadRequest, "description and DRE range are required")
		return
	}

	if !categoryExists(w, id, userID) {
		return
	}

	_, err = database.DB.Exec(
		"UPDATE categories SET description = ?, dre_range = ? WHERE id = ? AND user_id = ?",
		req.Description, req.DRERange, id, userID,
	)
	if err != nil {
		log.Printf("Error updating category: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "category updated"})
}

func DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r)
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if !categoryExists(w, id, userID) {
		return
	}

	var refs int
	err = database.DB.QueryRow(
		"SELECT COUNT(*) FROM chart_of_accounts WHERE category_id = ?", id,
	).Scan(&refs)
	if err != nil {
		log.Printf("Error counting category references: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if refs > 0 {
		respondError(w, http.StatusBadRequest, "category is referenced by chart of accounts")
		return
	}

	_, err = database.DB.Exec("DELETE FROM categories WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		log.Printf("Error deleting category: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}

// categoryExists writes the error response itself and reports whether to
// continue.
func categoryExists(w http.ResponseWriter, id, userID int64) bool {
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
