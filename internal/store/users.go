package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/dishly/restaurant-api/internal/apperr"
	"github.com/dishly/restaurant-api/pkg/models"
)

const userColumns = `id, username, password, role, status, last_login, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Password, &user.Role,
		&user.Status, &user.LastLogin, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Postgres) CreateUser(ctx context.Context, user *models.User) error {
	fillMeta(&user.ID, &user.CreatedAt, &user.UpdatedAt, uuid.NewString)
	if user.LastLogin.IsZero() {
		user.LastLogin = user.CreatedAt
	}

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query, user.ID, user.Username, user.Password,
		user.Role, user.Status, user.LastLogin, user.CreatedAt, user.UpdatedAt)
	if isUniqueViolation(err) {
		return apperr.Newf(apperr.Conflict, "username %s already exists", user.Username)
	}
	return err
}

func (s *Postgres) GetUser(ctx context.Context, id string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Postgres) FindUserByLogin(ctx context.Context, username, role string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1 AND role = $2`, username, role)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Postgres) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *Postgres) UpdateUser(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET username = $2, password = $3, role = $4, status = $5,
			updated_at = NOW()
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query, user.ID, user.Username, user.Password,
		user.Role, user.Status)
	if isUniqueViolation(err) {
		return apperr.Newf(apperr.Conflict, "username %s already exists", user.Username)
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.New(apperr.NotFound, "user not found")
	}
	return nil
}

func (s *Postgres) DeleteUser(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.New(apperr.NotFound, "user not found")
	}
	return nil
}

func (s *Postgres) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, at)
	return err
}
