package store

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/dishly/restaurant-api/pkg/models"
)

// Seed creates the default staff accounts and sample menu on a fresh
// database. It is a no-op once any user exists.
func (s *Postgres) Seed(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	accounts := []struct {
		username, password, role string
	}{
		{"admin", "admin123", models.RoleAdmin},
		{"chushi", "chushi123", models.RoleChef},
	}
	for _, a := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.password), 12)
		if err != nil {
			return err
		}
		user := &models.User{
			Username: a.username,
			Password: string(hash),
			Role:     a.role,
			Status:   true,
		}
		if err := s.CreateUser(ctx, user); err != nil {
			return err
		}
		s.logger.WithField("username", a.username).Info("Seeded staff account")
	}

	dishes := []*models.Dish{
		{Name: "Kung Pao Chicken", Price: 38.0, Description: "Classic Sichuan stir-fry, spicy and fragrant", Image: "/uploads/kungpao-chicken.jpg", Status: true},
		{Name: "Boiled Fish in Chili Oil", Price: 58.0, Description: "Fresh grass carp fillets in numbing chili broth", Image: "/uploads/boiled-fish.jpg", Status: true},
		{Name: "Scrambled Eggs with Peppers", Price: 18.0, Description: "Light home-style stir-fry", Image: "/uploads/pepper-egg.jpg", Status: true},
	}
	for _, dish := range dishes {
		if err := s.CreateDish(ctx, dish); err != nil {
			return err
		}
	}
	s.logger.WithField("count", len(dishes)).Info("Seeded sample dishes")
	return nil
}
