package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dishly/restaurant-api/internal/apperr"
	"github.com/dishly/restaurant-api/pkg/models"
)

// Memory is an in-process Store used by tests. It enforces the same
// invariants as the Postgres store, serialized under one mutex.
type Memory struct {
	mu     sync.Mutex
	dishes []*models.Dish
	users  []*models.User
	orders []*models.Order
}

func NewMemory() *Memory { return &Memory{} }

var _ Store = (*Memory)(nil)

func copyDish(d *models.Dish) *models.Dish {
	c := *d
	return &c
}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func (m *Memory) copyOrder(o *models.Order) *models.Order {
	c := *o
	c.Items = make([]models.OrderItem, len(o.Items))
	for i, item := range o.Items {
		c.Items[i] = item
		c.Items[i].Dish = nil
		for _, d := range m.dishes {
			if d.ID == item.DishID {
				c.Items[i].Dish = copyDish(d)
				break
			}
		}
	}
	return &c
}

func (m *Memory) CreateDish(_ context.Context, dish *models.Dish) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, d := range m.dishes {
		if d.Name == dish.Name {
			return apperr.Newf(apperr.Validation, "dish %s already exists", dish.Name)
		}
	}
	fillMeta(&dish.ID, &dish.CreatedAt, &dish.UpdatedAt, uuid.NewString)
	m.dishes = append(m.dishes, copyDish(dish))
	return nil
}

func (m *Memory) GetDish(_ context.Context, id string) (*models.Dish, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, d := range m.dishes {
		if d.ID == id {
			return copyDish(d), nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "dish not found")
}

func (m *Memory) ListDishes(_ context.Context) ([]*models.Dish, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*models.Dish, 0, len(m.dishes))
	for i := len(m.dishes) - 1; i >= 0; i-- {
		out = append(out, copyDish(m.dishes[i]))
	}
	return out, nil
}

func (m *Memory) UpdateDish(_ context.Context, dish *models.Dish) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, d := range m.dishes {
		if d.ID != dish.ID && d.Name == dish.Name {
			return apperr.Newf(apperr.Validation, "dish %s already exists", dish.Name)
		}
	}
	for i, d := range m.dishes {
		if d.ID == dish.ID {
			dish.CreatedAt = d.CreatedAt
			dish.UpdatedAt = time.Now()
			m.dishes[i] = copyDish(dish)
			return nil
		}
	}
	return apperr.New(apperr.NotFound, "dish not found")
}

func (m *Memory) DeleteDish(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, d := range m.dishes {
		if d.ID == id {
			m.dishes = append(m.dishes[:i], m.dishes[i+1:]...)
			return nil
		}
	}
	return apperr.New(apperr.NotFound, "dish not found")
}

func (m *Memory) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username {
			return apperr.Newf(apperr.Conflict, "username %s already exists", user.Username)
		}
	}
	fillMeta(&user.ID, &user.CreatedAt, &user.UpdatedAt, uuid.NewString)
	if user.LastLogin.IsZero() {
		user.LastLogin = user.CreatedAt
	}
	m.users = append(m.users, copyUser(user))
	return nil
}

func (m *Memory) GetUser(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.ID == id {
			return copyUser(u), nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "user not found")
}

func (m *Memory) FindUserByLogin(_ context.Context, username, role string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == username && u.Role == role {
			return copyUser(u), nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "user not found")
}

func (m *Memory) ListUsers(_ context.Context) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*models.User, 0, len(m.users))
	for i := len(m.users) - 1; i >= 0; i-- {
		out = append(out, copyUser(m.users[i]))
	}
	return out, nil
}

func (m *Memory) UpdateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.ID != user.ID && u.Username == user.Username {
			return apperr.Newf(apperr.Conflict, "username %s already exists", user.Username)
		}
	}
	for i, u := range m.users {
		if u.ID == user.ID {
			user.CreatedAt = u.CreatedAt
			user.UpdatedAt = time.Now()
			m.users[i] = copyUser(user)
			return nil
		}
	}
	return apperr.New(apperr.NotFound, "user not found")
}

func (m *Memory) DeleteUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, u := range m.users {
		if u.ID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return nil
		}
	}
	return apperr.New(apperr.NotFound, "user not found")
}

func (m *Memory) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.ID == id {
			u.LastLogin = at
			return nil
		}
	}
	return apperr.New(apperr.NotFound, "user not found")
}

func (m *Memory) CreateOrder(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	fillMeta(&order.ID, &order.CreatedAt, &order.UpdatedAt, uuid.NewString)
	stored := *order
	stored.Items = make([]models.OrderItem, len(order.Items))
	for i, item := range order.Items {
		stored.Items[i] = item
		stored.Items[i].Dish = nil
	}
	m.orders = append(m.orders, &stored)
	return nil
}

func (m *Memory) GetOrder(_ context.Context, id string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, o := range m.orders {
		if o.ID == id {
			return m.copyOrder(o), nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "order not found")
}

func (m *Memory) ListOrders(ctx context.Context) ([]*models.Order, error) {
	return m.ListOrdersBetween(ctx, time.Time{}, time.Time{})
}

func (m *Memory) ListOrdersBetween(_ context.Context, from, to time.Time) ([]*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*models.Order
	for _, o := range m.orders {
		if !from.IsZero() && o.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && o.CreatedAt.After(to) {
			continue
		}
		out = append(out, m.copyOrder(o))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) UpdateOrderStatus(_ context.Context, id, status string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, o := range m.orders {
		if o.ID == id {
			o.Status = status
			o.UpdatedAt = time.Now()
			return m.copyOrder(o), nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "order not found")
}

func (m *Memory) CompleteOrderItem(_ context.Context, orderID, dishID string, delta int) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, o := range m.orders {
		if o.ID != orderID {
			continue
		}
		if _, err := applyCompletion(o, dishID, delta); err != nil {
			return nil, err
		}
		if o.AllItemsCompleted() && o.Status != models.StatusCompleted {
			o.Status = models.StatusCompleted
		}
		o.UpdatedAt = time.Now()
		return m.copyOrder(o), nil
	}
	return nil, apperr.New(apperr.NotFound, "order not found")
}
