package models

import (
	"time"
)

// Order statuses.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// User roles.
const (
	RoleAdmin = "admin"
	RoleChef  = "chef"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleChef
}

type Dish struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Status      bool      `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// User is a staff account. The password hash never serializes.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	Status    bool      `json:"status"`
	LastLogin time.Time `json:"last_login"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Order struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user,omitempty"`
	Items       []OrderItem `json:"items"`
	TotalAmount float64     `json:"total_amount"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// OrderItem is one dish line. Price is captured at order time; Dish is
// populated on reads when the referenced dish still exists.
type OrderItem struct {
	DishID            string  `json:"dish_id"`
	Dish              *Dish   `json:"dish,omitempty"`
	Quantity          int     `json:"quantity"`
	CompletedQuantity int     `json:"completed_quantity"`
	Price             float64 `json:"price"`
}

// AllItemsCompleted reports whether every line is fully prepared.
func (o *Order) AllItemsCompleted() bool {
	for _, item := range o.Items {
		if item.CompletedQuantity != item.Quantity {
			return false
		}
	}
	return len(o.Items) > 0
}

// DishStat is one row of the sales statistics aggregation.
type DishStat struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}
