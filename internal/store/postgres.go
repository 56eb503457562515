package store

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const uniqueViolation = "23505"

type Postgres struct {
	db     *sql.DB
	logger *logrus.Logger
}

// OpenPostgres connects, waits for the database to come up, and creates the
// schema. The returned store owns the connection pool.
func OpenPostgres(dsn string, logger *logrus.Logger) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	var pingErr error
	for i := 0; i < 30; i++ {
		if pingErr = db.Ping(); pingErr == nil {
			logger.Info("Database connection established")
			break
		}
		logger.Info("Waiting for database...")
		time.Sleep(2 * time.Second)
	}
	if pingErr != nil {
		db.Close()
		return nil, pingErr
	}

	s := &Postgres{db: db, logger: logger}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Postgres) Close() error { return s.db.Close() }

func (s *Postgres) Ping() error { return s.db.Ping() }

func (s *Postgres) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS dishes (
			id VARCHAR(64) PRIMARY KEY,
			name VARCHAR(64) NOT NULL,
			price DECIMAL(10,2) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			image VARCHAR(255) NOT NULL DEFAULT '',
			status BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_dishes_name ON dishes(name)`,
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(64) PRIMARY KEY,
			username VARCHAR(64) NOT NULL,
			password VARCHAR(128) NOT NULL,
			role VARCHAR(16) NOT NULL,
			status BOOLEAN NOT NULL DEFAULT TRUE,
			last_login TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id VARCHAR(64) PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL DEFAULT '',
			total_amount DECIMAL(10,2) NOT NULL,
			status VARCHAR(16) NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		// dish_id deliberately carries no foreign key: deleting a dish
		// leaves existing order lines untouched with a dangling reference.
		`CREATE TABLE IF NOT EXISTS order_items (
			id SERIAL PRIMARY KEY,
			order_id VARCHAR(64) NOT NULL REFERENCES orders(id),
			dish_id VARCHAR(64) NOT NULL,
			quantity INTEGER NOT NULL,
			completed_quantity INTEGER NOT NULL DEFAULT 0,
			price DECIMAL(10,2) NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == uniqueViolation
	}
	return false
}

func fillMeta(id *string, createdAt, updatedAt *time.Time, newID func() string) {
	now := time.Now()
	if *id == "" {
		*id = newID()
	}
	if createdAt.IsZero() {
		*createdAt = now
	}
	if updatedAt.IsZero() {
		*updatedAt = now
	}
}

var _ Store = (*Postgres)(nil)
