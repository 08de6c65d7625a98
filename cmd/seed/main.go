package main

import (
	"context"
	"errors"
	"log"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/quickdesk/helpdesk-service/internal/auth"
	"github.com/quickdesk/helpdesk-service/internal/config"
	"github.com/quickdesk/helpdesk-service/internal/domain"
	"github.com/quickdesk/helpdesk-service/internal/observability"
	"github.com/quickdesk/helpdesk-service/internal/persistence"
	"github.com/quickdesk/helpdesk-service/internal/repository"
)

type seedAccount struct {
	Email    string
	Name     string
	Password string
	Role     domain.Role
}

var seedAccounts = []seedAccount{
	{Email: "admin@quickdesk.local", Name: "Admin", Password: "admin123", Role: domain.RoleAdmin},
	{Email: "agent@quickdesk.local", Name: "Support Agent", Password: "agent123", Role: domain.RoleAgent},
}

var seedCategories = []string{"Technical", "Billing", "General"}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)

	for _, account := range seedAccounts {
		if err := seedUser(ctx, userRepo, cfg.Auth.BcryptCost, account, logger); err != nil {
			logger.Fatal("failed to seed account", zap.String("email", account.Email), zap.Error(err))
		}
	}

	for _, name := range seedCategories {
		if err := seedCategory(ctx, categoryRepo, name, logger); err != nil {
			logger.Fatal("failed to seed category", zap.String("name", name), zap.Error(err))
		}
	}

	logger.Info("seed complete")
}

func seedUser(ctx context.Context, users repository.UserRepository, bcryptCost int, account seedAccount, logger *zap.Logger) error {
	_, err := users.GetByEmail(ctx, account.Email)
	if err == nil {
		logger.Info("account already exists, skipping", zap.String("email", account.Email))
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(account.Password, bcryptCost)
	if err != nil {
		return err
	}

	user := &domain.User{
		Email:        account.Email,
		Name:         account.Name,
		PasswordHash: hash,
		Role:         account.Role,
		Active:       true,
	}
	if err := users.Create(ctx, user); err != nil {
		return err
	}
	logger.Info("created account", zap.String("email", account.Email), zap.String("role", string(account.Role)))
	return nil
}

func seedCategory(ctx context.Context, categories repository.CategoryRepository, name string, logger *zap.Logger) error {
	_, err := categories.GetByName(ctx, name)
	if err == nil {
		logger.Info("category already exists, skipping", zap.String("name", name))
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	category := &domain.Category{Name: name}
	if err := categories.Create(ctx, category); err != nil {
		return err
	}
	logger.Info("created category", zap.String("name", name))
	return nil
}
