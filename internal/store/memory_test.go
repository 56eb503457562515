package store

import (
	"context"
	"testing"
	"time"

	"github.com/dishly/restaurant-api/internal/apperr"
	"github.com/dishly/restaurant-api/pkg/models"
)

func seedOrder(t *testing.T, m *Memory, items ...models.OrderItem) *models.Order {
	t.Helper()
	order := &models.Order{
		Items:       items,
		TotalAmount: 0,
		Status:      models.StatusPending,
	}
	if err := m.CreateOrder(context.Background(), order); err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return order
}

func TestCompleteOrderItemAccumulates(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	order := seedOrder(t, m, models.OrderItem{DishID: "d1", Quantity: 5})

	got, err := m.CompleteOrderItem(ctx, order.ID, "d1", 2)
	if err != nil {
		t.Fatal(err)
	}
	if got.Items[0].CompletedQuantity != 2 || got.Status != models.StatusPending {
		t.Fatalf("after +2: %+v", got)
	}

	got, err = m.CompleteOrderItem(ctx, order.ID, "d1", 3)
	if err != nil {
		t.Fatal(err)
	}
	if got.Items[0].CompletedQuantity != 5 {
		t.Fatalf("expected 5 completed, got %d", got.Items[0].CompletedQuantity)
	}
	if got.Status != models.StatusCompleted {
		t.Fatalf("expected completed, got %s", got.Status)
	}

	if _, err := m.CompleteOrderItem(ctx, order.ID, "d1", 1); apperr.KindOf(err) != apperr.Validation {
		t.Fatalf("expected validation error past full completion, got %v", err)
	}
}

func TestCompleteOrderItemRejectsOverflowAndNegative(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	order := seedOrder(t, m, models.OrderItem{DishID: "d1", Quantity: 3})

	if _, err := m.CompleteOrderItem(ctx, order.ID, "d1", 4); apperr.KindOf(err) != apperr.Validation {
		t.Fatalf("expected validation for overflow, got %v", err)
	}
	if _, err := m.CompleteOrderItem(ctx, order.ID, "d1", -1); apperr.KindOf(err) != apperr.Validation {
		t.Fatalf("expected validation for negative delta, got %v", err)
	}

	// Failed attempts must not change stored state.
	got, err := m.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Items[0].CompletedQuantity != 0 {
		t.Fatalf("expected untouched line, got %d", got.Items[0].CompletedQuantity)
	}
}

func TestCompleteOrderItemMissingTargets(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	order := seedOrder(t, m, models.OrderItem{DishID: "d1", Quantity: 1})

	if _, err := m.CompleteOrderItem(ctx, "nope", "d1", 1); apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("expected not found for missing order, got %v", err)
	}
	if _, err := m.CompleteOrderItem(ctx, order.ID, "d2", 1); apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("expected not found for missing line, got %v", err)
	}
}

func TestCompletedStatusDoesNotRegress(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	order := seedOrder(t, m, models.OrderItem{DishID: "d1", Quantity: 1})

	if _, err := m.CompleteOrderItem(ctx, order.ID, "d1", 1); err != nil {
		t.Fatal(err)
	}
	// A zero-delta increment on a completed order is a no-op, not a
	// status change.
	got, err := m.CompleteOrderItem(ctx, order.ID, "d1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusCompleted {
		t.Fatalf("expected status to stay completed, got %s", got.Status)
	}
}

func TestDuplicateKeys(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.CreateDish(ctx, &models.Dish{Name: "Noodles", Price: 10}); err != nil {
		t.Fatal(err)
	}
	err := m.CreateDish(ctx, &models.Dish{Name: "Noodles", Price: 12})
	if apperr.KindOf(err) != apperr.Validation {
		t.Fatalf("expected validation for duplicate dish name, got %v", err)
	}

	if err := m.CreateUser(ctx, &models.User{Username: "admin", Password: "x", Role: models.RoleAdmin}); err != nil {
		t.Fatal(err)
	}
	err = m.CreateUser(ctx, &models.User{Username: "admin", Password: "y", Role: models.RoleChef})
	if apperr.KindOf(err) != apperr.Conflict {
		t.Fatalf("expected conflict for duplicate username, got %v", err)
	}
}

func TestUpdateDishCannotTakeExistingName(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	a := &models.Dish{Name: "Noodles", Price: 10}
	b := &models.Dish{Name: "Rice", Price: 8}
	if err := m.CreateDish(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := m.CreateDish(ctx, b); err != nil {
		t.Fatal(err)
	}

	b.Name = "Noodles"
	if err := m.UpdateDish(ctx, b); apperr.KindOf(err) != apperr.Validation {
		t.Fatalf("expected validation renaming onto existing dish, got %v", err)
	}
}

func TestListOrdersBetweenBounds(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	mk := func(at time.Time) {
		order := &models.Order{
			Items:     []models.OrderItem{{DishID: "d1", Quantity: 1}},
			Status:    models.StatusPending,
			CreatedAt: at,
			UpdatedAt: at,
		}
		if err := m.CreateOrder(ctx, order); err != nil {
			t.Fatal(err)
		}
	}

	t1 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)
	t2 := time.Date(2024, 3, 2, 12, 0, 0, 0, time.Local)
	t3 := time.Date(2024, 3, 3, 12, 0, 0, 0, time.Local)
	mk(t1)
	mk(t2)
	mk(t3)

	got, err := m.ListOrdersBetween(ctx, t1, t2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 orders in window, got %d", len(got))
	}
	if !got[0].CreatedAt.Equal(t2) {
		t.Fatal("expected newest first")
	}

	all, err := m.ListOrders(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected all orders unbounded, got %d", len(all))
	}
}

func TestReturnedOrdersAreCopies(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	order := seedOrder(t, m, models.OrderItem{DishID: "d1", Quantity: 2})

	got, err := m.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatal(err)
	}
	got.Items[0].CompletedQuantity = 99
	got.Status = models.StatusCancelled

	fresh, err := m.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.Items[0].CompletedQuantity != 0 || fresh.Status != models.StatusPending {
		t.Fatal("mutating a returned order leaked into the store")
	}
}

func TestTouchLastLogin(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	user := &models.User{Username: "admin", Password: "x", Role: models.RoleAdmin, Status: true}
	if err := m.CreateUser(ctx, user); err != nil {
		t.Fatal(err)
	}

	at := time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local)
	if err := m.TouchLastLogin(ctx, user.ID, at); err != nil {
		t.Fatal(err)
	}
	got, err := m.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.LastLogin.Equal(at) {
		t.Fatalf("expected last login %v, got %v", at, got.LastLogin)
	}
}
