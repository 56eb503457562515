package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/dishly/restaurant-api/internal/apperr"
	"github.com/dishly/restaurant-api/pkg/models"
)

func (s *Postgres) CreateDish(ctx context.Context, dish *models.Dish) error {
	fillMeta(&dish.ID, &dish.CreatedAt, &dish.UpdatedAt, uuid.NewString)

	query := `
		INSERT INTO dishes (id, name, price, description, image, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query, dish.ID, dish.Name, dish.Price,
		dish.Description, dish.Image, dish.Status, dish.CreatedAt, dish.UpdatedAt)
	if isUniqueViolation(err) {
		return apperr.Newf(apperr.Validation, "dish %s already exists", dish.Name)
	}
	return err
}

func (s *Postgres) GetDish(ctx context.Context, id string) (*models.Dish, error) {
	query := `
		SELECT id, name, price, description, image, status, created_at, updated_at
		FROM dishes WHERE id = $1
	`
	dish := &models.Dish{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&dish.ID, &dish.Name, &dish.Price, &dish.Description,
		&dish.Image, &dish.Status, &dish.CreatedAt, &dish.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.NotFound, "dish not found")
	}
	if err != nil {
		return nil, err
	}
	return dish, nil
}

func (s *Postgres) ListDishes(ctx context.Context) ([]*models.Dish, error) {
	query := `
		SELECT id, name, price, description, image, status, created_at, updated_at
		FROM dishes ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dishes []*models.Dish
	for rows.Next() {
		dish := &models.Dish{}
		err := rows.Scan(&dish.ID, &dish.Name, &dish.Price, &dish.Description,
			&dish.Image, &dish.Status, &dish.CreatedAt, &dish.UpdatedAt)
		if err != nil {
			return nil, err
		}
		dishes = append(dishes, dish)
	}
	return dishes, rows.Err()
}

func (s *Postgres) UpdateDish(ctx context.Context, dish *models.Dish) error {
	query := `
		UPDATE dishes SET name = $2, price = $3, description = $4, image = $5,
			status = $6, updated_at = NOW()
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query, dish.ID, dish.Name, dish.Price,
		dish.Description, dish.Image, dish.Status)
	if isUniqueViolation(err) {
		return apperr.Newf(apperr.Validation, "dish %s already exists", dish.Name)
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.New(apperr.NotFound, "dish not found")
	}
	return nil
}

func (s *Postgres) DeleteDish(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM dishes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.New(apperr.NotFound, "dish not found")
	}
	return nil
}
