package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/dishly/restaurant-api/internal/apperr"
	"github.com/dishly/restaurant-api/pkg/models"
)

func (s *Postgres) CreateOrder(ctx context.Context, order *models.Order) error {
	fillMeta(&order.ID, &order.CreatedAt, &order.UpdatedAt, uuid.NewString)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (id, user_id, total_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.ExecContext(ctx, query, order.ID, order.UserID, order.TotalAmount,
		order.Status, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return err
	}

	itemQuery := `
		INSERT INTO order_items (order_id, dish_id, quantity, completed_quantity, price)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx, itemQuery, order.ID, item.DishID,
			item.Quantity, item.CompletedQuantity, item.Price)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Postgres) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	query := `
		SELECT id, user_id, total_amount, status, created_at, updated_at
		FROM orders WHERE id = $1
	`
	order := &models.Order{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.UserID, &order.TotalAmount,
		&order.Status, &order.CreatedAt, &order.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.NotFound, "order not found")
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Postgres) ListOrders(ctx context.Context) ([]*models.Order, error) {
	return s.ListOrdersBetween(ctx, time.Time{}, time.Time{})
}

func (s *Postgres) ListOrdersBetween(ctx context.Context, from, to time.Time) ([]*models.Order, error) {
	query := `
		SELECT id, user_id, total_amount, status, created_at, updated_at
		FROM orders
	`
	var args []interface{}
	switch {
	case !from.IsZero() && !to.IsZero():
		query += ` WHERE created_at >= $1 AND created_at <= $2`
		args = append(args, from, to)
	case !from.IsZero():
		query += ` WHERE created_at >= $1`
		args = append(args, from)
	case !to.IsZero():
		query += ` WHERE created_at <= $1`
		args = append(args, to)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		err := rows.Scan(&order.ID, &order.UserID, &order.TotalAmount,
			&order.Status, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, order := range orders {
		if err := s.loadItems(ctx, order); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// loadItems populates the order's lines, left-joining dish details so a
// deleted dish shows up as a nil Dish rather than an error.
func (s *Postgres) loadItems(ctx context.Context, order *models.Order) error {
	query := `
		SELECT oi.dish_id, oi.quantity, oi.completed_quantity, oi.price,
			d.id, d.name, d.price, d.description, d.image, d.status, d.created_at, d.updated_at
		FROM order_items oi
		LEFT JOIN dishes d ON d.id = oi.dish_id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`
	rows, err := s.db.QueryContext(ctx, query, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	order.Items = nil
	for rows.Next() {
		var item models.OrderItem
		var (
			dishID, dishName, dishDesc, dishImage sql.NullString
			dishPrice                             sql.NullFloat64
			dishStatus                            sql.NullBool
			dishCreated, dishUpdated              sql.NullTime
		)
		err := rows.Scan(&item.DishID, &item.Quantity, &item.CompletedQuantity, &item.Price,
			&dishID, &dishName, &dishPrice, &dishDesc, &dishImage, &dishStatus,
			&dishCreated, &dishUpdated)
		if err != nil {
			return err
		}
		if dishID.Valid {
			item.Dish = &models.Dish{
				ID:          dishID.String,
				Name:        dishName.String,
				Price:       dishPrice.Float64,
				Description: dishDesc.String,
				Image:       dishImage.String,
				Status:      dishStatus.Bool,
				CreatedAt:   dishCreated.Time,
				UpdatedAt:   dishUpdated.Time,
			}
		}
		order.Items = append(order.Items, item)
	}
	return rows.Err()
}

func (s *Postgres) UpdateOrderStatus(ctx context.Context, id, status string) (*models.Order, error) {
	query := `UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`
	res, err := s.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperr.New(apperr.NotFound, "order not found")
	}
	return s.GetOrder(ctx, id)
}

func (s *Postgres) CompleteOrderItem(ctx context.Context, orderID, dishID string, delta int) (*models.Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Lock the order row so concurrent increments on the same order
	// serialize instead of losing updates.
	order := &models.Order{}
	err = tx.QueryRowContext(ctx,
		`SELECT id, status FROM orders WHERE id = $1 FOR UPDATE`, orderID,
	).Scan(&order.ID, &order.Status)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.NotFound, "order not found")
	}
	if err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT dish_id, quantity, completed_quantity, price FROM order_items
		 WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.DishID, &item.Quantity, &item.CompletedQuantity, &item.Price); err != nil {
			rows.Close()
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	item, err := applyCompletion(order, dishID, delta)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE order_items SET completed_quantity = $3 WHERE order_id = $1 AND dish_id = $2`,
		orderID, dishID, item.CompletedQuantity)
	if err != nil {
		return nil, err
	}

	if order.AllItemsCompleted() && order.Status != models.StatusCompleted {
		_, err = tx.ExecContext(ctx,
			`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`,
			orderID, models.StatusCompleted)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, orderID)
}
