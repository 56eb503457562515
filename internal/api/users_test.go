package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/dishly/restaurant-api/pkg/models"
)

func createUserViaAPI(t *testing.T, h *Handler, username, password, role string) models.User {
	t.Helper()
	rec, env := doJSON(t, h, "POST", "/api/admin/users", map[string]interface{}{
		"username": username,
		"password": password,
		"role":     role,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user: expected 201, got %d (%s)", rec.Code, env.Message)
	}
	var user models.User
	decodeData(t, env, &user)
	return user
}

func TestCreateUserNeverReturnsPassword(t *testing.T) {
	h, _ := newTestHandler(t)

	rec, _ := doJSON(t, h, "POST", "/api/admin/users", map[string]interface{}{
		"username": "zhangwei",
		"password": "secret123",
		"role":     "chef",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "secret123") || strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("password leaked in response: %s", rec.Body.String())
	}
}

func TestCreateUserDuplicateUsernameConflicts(t *testing.T) {
	h, _ := newTestHandler(t)
	createUserViaAPI(t, h, "zhangwei", "secret123", "chef")

	rec, env := doJSON(t, h, "POST", "/api/admin/users", map[string]interface{}{
		"username": "zhangwei",
		"password": "other1234",
		"role":     "admin",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate username, got %d", rec.Code)
	}
	if env.Success {
		t.Fatal("expected success=false")
	}
}

func TestCreateUserValidation(t *testing.T) {
	h, _ := newTestHandler(t)

	cases := []map[string]interface{}{
		{"username": "x", "password": "secret123", "role": "chef"},
		{"username": "zhangwei", "password": "short", "role": "chef"},
		{"username": "zhangwei", "password": "secret123", "role": "waiter"},
		{"password": "secret123", "role": "chef"},
	}
	for i, body := range cases {
		rec, _ := doJSON(t, h, "POST", "/api/admin/users", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("case %d: expected 400, got %d", i, rec.Code)
		}
	}
}

func TestLoginFlow(t *testing.T) {
	h, _ := newTestHandler(t)
	user := createUserViaAPI(t, h, "zhangwei", "secret123", "chef")

	rec, env := doJSON(t, h, "POST", "/api/auth/login", map[string]string{
		"username": "zhangwei", "password": "secret123", "role": "chef",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, env.Message)
	}
	var data struct {
		User sessionUser `json:"user"`
	}
	decodeData(t, env, &data)
	if data.User.ID != user.ID || data.User.Role != "chef" {
		t.Fatalf("unexpected session user %+v", data.User)
	}

	// Wrong password.
	rec, _ = doJSON(t, h, "POST", "/api/auth/login", map[string]string{
		"username": "zhangwei", "password": "wrongpass", "role": "chef",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", rec.Code)
	}

	// Wrong role for an existing account.
	rec, _ = doJSON(t, h, "POST", "/api/auth/login", map[string]string{
		"username": "zhangwei", "password": "secret123", "role": "admin",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for role mismatch, got %d", rec.Code)
	}
}

func TestLoginDisabledAccountForbidden(t *testing.T) {
	h, _ := newTestHandler(t)
	user := createUserViaAPI(t, h, "zhangwei", "secret123", "chef")

	rec, _ := doJSON(t, h, "PUT", "/api/admin/users/"+user.ID, map[string]interface{}{
		"status": false,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("disable user: expected 200, got %d", rec.Code)
	}

	rec, _ = doJSON(t, h, "POST", "/api/auth/login", map[string]string{
		"username": "zhangwei", "password": "secret123", "role": "chef",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for disabled account, got %d", rec.Code)
	}
}

func TestUpdateUserRehashesPassword(t *testing.T) {
	h, _ := newTestHandler(t)
	user := createUserViaAPI(t, h, "zhangwei", "secret123", "chef")

	rec, _ := doJSON(t, h, "PUT", "/api/admin/users/"+user.ID, map[string]interface{}{
		"password": "newsecret",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", rec.Code)
	}

	rec, _ = doJSON(t, h, "POST", "/api/auth/login", map[string]string{
		"username": "zhangwei", "password": "newsecret", "role": "chef",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login with new password: expected 200, got %d", rec.Code)
	}

	rec, _ = doJSON(t, h, "POST", "/api/auth/login", map[string]string{
		"username": "zhangwei", "password": "secret123", "role": "chef",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("old password should no longer work, got %d", rec.Code)
	}
}

func TestDeleteUser(t *testing.T) {
	h, _ := newTestHandler(t)
	user := createUserViaAPI(t, h, "zhangwei", "secret123", "chef")

	rec, _ := doJSON(t, h, "DELETE", "/api/admin/users/"+user.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}
	rec, _ = doJSON(t, h, "DELETE", "/api/admin/users/"+user.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", rec.Code)
	}
}
