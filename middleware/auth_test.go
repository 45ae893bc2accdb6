package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func protectedEcho(t *testing.T, capture *int64) http.Handler {
	t.Helper()
	return AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*capture = GetUserIDFromContext(r)
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	token, err := IssueToken(42, "alice@example.com")
	if err != nil {
		t.Fatalf("Error issuing token: %v", err)
	}

	var gotUserID int64
	handler := protectedEcho(t, &gotUserID)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if gotUserID != 42 {
		t.Errorf("Expected user id 42 in context, got %d", gotUserID)
	}
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	var gotUserID int64
	handler := protectedEcho(t, &gotUserID)

	req := httptest.NewRequest("GET", "/me", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status code %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthMiddlewareBadToken(t *testing.T) {
	var gotUserID int64
	handler := protectedEcho(t, &gotUserID)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status code %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthMiddlewareSkipsPreflight(t *testing.T) {
	var gotUserID int64
	handler := protectedEcho(t, &gotUserID)

	req := httptest.NewRequest("OPTIONS", "/me", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status code %d for preflight, got %d", http.StatusOK, w.Code)
	}
}
