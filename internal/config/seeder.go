package config

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"coursehub/internal/adapters/persistence/models"
	"coursehub/internal/adapters/persistence/repositories"
	"coursehub/internal/core/domain"
	"coursehub/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	users  repositories.UserRepository
	hasher *password.Hasher
	seed   SeedConfig
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, hasher *password.Hasher, seed SeedConfig) *Seeder {
	return &Seeder{users: repositories.NewUserRepository(db), hasher: hasher, seed: seed}
}

// Run executes all seeders
func (s *Seeder) Run(ctx context.Context) error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(ctx); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser creates the development admin when no admin exists yet.
// This is for development only; in production admins sign up with role=admin.
func (s *Seeder) seedAdminUser(ctx context.Context) error {
	email := strings.TrimSpace(s.seed.AdminEmail)
	if email == "" || s.seed.AdminPassword == "" {
		log.Println("⚠️ Skipping admin seed: SEED_ADMIN_EMAIL or SEED_ADMIN_PASSWORD not set")
		return nil
	}

	exists, err := s.users.ExistsByRole(ctx, string(domain.RoleAdmin))
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if !password.ValidatePassword(s.seed.AdminPassword) {
		return errors.New("SEED_ADMIN_PASSWORD does not meet the password policy")
	}

	hashed, err := s.hasher.Hash(s.seed.AdminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		DisplayName: s.seed.AdminName,
		Email:       email,
		Password:    hashed,
		Role:        string(domain.RoleAdmin),
	}
	if err := s.users.Create(ctx, admin); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%s is already registered as a non-admin user", email)
		}
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Email)
	return nil
}
