// Package store persists dishes, users, and orders. The Postgres
// implementation backs the server; the in-memory one backs tests.
package store

import (
	"context"
	"time"

	"github.com/dishly/restaurant-api/internal/apperr"
	"github.com/dishly/restaurant-api/pkg/models"
)

type Store interface {
	CreateDish(ctx context.Context, dish *models.Dish) error
	GetDish(ctx context.Context, id string) (*models.Dish, error)
	ListDishes(ctx context.Context) ([]*models.Dish, error)
	UpdateDish(ctx context.Context, dish *models.Dish) error
	DeleteDish(ctx context.Context, id string) error

	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	FindUserByLogin(ctx context.Context, username, role string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id string) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error

	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	// ListOrders returns orders newest first with dish details populated.
	// Lines whose dish no longer exists keep a nil Dish.
	ListOrders(ctx context.Context) ([]*models.Order, error)
	// ListOrdersBetween bounds the result to orders created within
	// [from, to] inclusive. A zero bound is unbounded on that side.
	ListOrdersBetween(ctx context.Context, from, to time.Time) ([]*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id, status string) (*models.Order, error)
	// CompleteOrderItem increments the completed quantity of the line for
	// dishID by delta and flips the order to completed when every line is
	// done. The increment is atomic with respect to concurrent calls.
	CompleteOrderItem(ctx context.Context, orderID, dishID string, delta int) (*models.Order, error)
}

// applyCompletion mutates the line for dishID by delta, enforcing the
// completed-quantity invariants. Both store implementations run it under
// their respective order lock.
func applyCompletion(order *models.Order, dishID string, delta int) (*models.OrderItem, error) {
	var item *models.OrderItem
	for i := range order.Items {
		if order.Items[i].DishID == dishID {
			item = &order.Items[i]
			break
		}
	}
	if item == nil {
		return nil, apperr.New(apperr.NotFound, "order does not contain this dish")
	}
	if delta < 0 {
		return nil, apperr.New(apperr.Validation, "completed quantity must not be negative")
	}
	if item.CompletedQuantity+delta > item.Quantity {
		return nil, apperr.New(apperr.Validation, "completed quantity exceeds ordered quantity")
	}
	item.CompletedQuantity += delta
	return item, nil
}
