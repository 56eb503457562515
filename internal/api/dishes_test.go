package api

import (
	"net/http"
	"testing"

	"github.com/dishly/restaurant-api/pkg/models"
)

func TestCreateDishValidation(t *testing.T) {
	h, _ := newTestHandler(t)

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"name too short", map[string]interface{}{"name": "a", "price": 10, "image": "/uploads/a.jpg"}},
		{"name too long", map[string]interface{}{"name": "this dish name is way beyond limit", "price": 10, "image": "/uploads/a.jpg"}},
		{"negative price", map[string]interface{}{"name": "Noodles", "price": -1, "image": "/uploads/a.jpg"}},
		{"missing price", map[string]interface{}{"name": "Noodles", "image": "/uploads/a.jpg"}},
		{"missing image", map[string]interface{}{"name": "Noodles", "price": 10}},
	}

	for _, tc := range cases {
		rec, env := doJSON(t, h, "POST", "/api/admin/dishes", tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tc.name, rec.Code)
		}
		if env.Success {
			t.Errorf("%s: expected success=false", tc.name)
		}
	}
}

func TestCreateDishDuplicateNameIsValidationError(t *testing.T) {
	h, _ := newTestHandler(t)

	body := map[string]interface{}{"name": "Noodles", "price": 12.5, "image": "/uploads/n.jpg"}
	rec, _ := doJSON(t, h, "POST", "/api/admin/dishes", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	rec, env := doJSON(t, h, "POST", "/api/admin/dishes", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate name, got %d", rec.Code)
	}
	if env.Message == "" {
		t.Fatal("expected a message explaining the duplicate")
	}
}

func TestDishCRUD(t *testing.T) {
	h, _ := newTestHandler(t)

	rec, env := doJSON(t, h, "POST", "/api/admin/dishes", map[string]interface{}{
		"name":        "Noodles",
		"price":       12.5,
		"description": "hand pulled",
		"image":       "/uploads/n.jpg",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, env.Message)
	}
	var dish models.Dish
	decodeData(t, env, &dish)
	if !dish.Status {
		t.Fatal("expected new dish to default to active")
	}

	rec, env = doJSON(t, h, "GET", "/api/dishes/"+dish.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}

	rec, env = doJSON(t, h, "PUT", "/api/admin/dishes/"+dish.ID, map[string]interface{}{
		"price":  14.0,
		"status": false,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d (%s)", rec.Code, env.Message)
	}
	var updated models.Dish
	decodeData(t, env, &updated)
	if updated.Price != 14.0 || updated.Status || updated.Name != "Noodles" {
		t.Fatalf("partial update went wrong: %+v", updated)
	}

	rec, _ = doJSON(t, h, "DELETE", "/api/admin/dishes/"+dish.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}

	rec, _ = doJSON(t, h, "DELETE", "/api/admin/dishes/"+dish.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", rec.Code)
	}

	rec, _ = doJSON(t, h, "GET", "/api/dishes/"+dish.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", rec.Code)
	}
}

func TestListDishesNewestFirst(t *testing.T) {
	h, mem := newTestHandler(t)
	seedDish(t, mem, "First", 10)
	seedDish(t, mem, "Second", 11)

	rec, env := doJSON(t, h, "GET", "/api/dishes", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var dishes []models.Dish
	decodeData(t, env, &dishes)
	if len(dishes) != 2 || dishes[0].Name != "Second" {
		t.Fatalf("expected newest dish first, got %+v", dishes)
	}
}
