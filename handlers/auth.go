package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"gestfin/database"
	"gestfin/middleware"
	"gestfin/models"
	"gestfin/security"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if !strings.Contains(req.Email, "@") {
		respondError(w, http.StatusBadRequest, "invalid email")
		return
	}
	if len(req.Password) < 6 {
		respondError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	res, err := database.DB.Exec(
		"INSERT INTO users (name, email, password) VALUES (?, ?, ?)",
		req.Name, req.Email, hash,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			respondError(w, http.StatusBadRequest, "email already registered")
			return
		}
		log.Printf("Error creating user: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	id, err := res.LastInsertId()
	if err != nil {
		log.Printf("Error reading user id: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	var user models.User
	var hash string
	err := database.DB.QueryRow(
		"SELECT id, name, email, password FROM users WHERE email = ?",
		req.Email,
	).Scan(&user.ID, &user.Name, &user.Email, &hash)
	if err == sql.ErrNoRows || (err == nil && !security.CheckPassword(hash, req.Password)) {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		log.Printf("Error reading user: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	token, err := middleware.IssueToken(user.ID, user.Email)
	if err != nil {
		log.Printf("Error signing token: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "login successful",
		"token":   token,
		"user":    user,
	})
}

func Logout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "logout successful"})
}

func Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r)

	var user models.User
	err := database.DB.QueryRow(
		"SELECT id, name, email FROM users WHERE id = ?",
		userID,
	).Scan(&user.ID, &user.Name, &user.Email)
	if err == sql.ErrNoRows {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		log.Printf("Error reading user: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, user)
}
