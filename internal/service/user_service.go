package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/quickdesk/helpdesk-service/internal/auth"
	"github.com/quickdesk/helpdesk-service/internal/config"
	"github.com/quickdesk/helpdesk-service/internal/domain"
	"github.com/quickdesk/helpdesk-service/internal/repository"
	apperrors "github.com/quickdesk/helpdesk-service/pkg/util"
)

// UserService manages accounts on behalf of admins.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
}

// NewUserService constructs the service.
func NewUserService(cfg config.Config, users repository.UserRepository) *UserService {
	return &UserService{users: users, bcryptCost: cfg.Auth.BcryptCost}
}

func requireManageUsers(actor *domain.Principal) error {
	if actor == nil || !auth.Allows(actor.Role, auth.CapManageUsers) {
		return apperrors.NewForbidden("access denied")
	}
	return nil
}

// CreateAgent adds a new support agent account.
func (s *UserService) CreateAgent(ctx context.Context, actor *domain.Principal, name, email, password string) (*domain.User, error) {
	if err := requireManageUsers(actor); err != nil {
		return nil, err
	}
	email = strings.TrimSpace(email)
	if email == "" || name == "" || password == "" {
		return nil, apperrors.NewValidationError("name, email, password required", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewDuplicateEmail(email)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	agent := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         domain.RoleAgent,
		Active:       true,
	}
	if err := s.users.Create(ctx, agent); err != nil {
		return nil, apperrors.MapError(err)
	}
	return agent, nil
}

// ToggleActive flips an account's active flag. Admin accounts cannot be
// deactivated.
func (s *UserService) ToggleActive(ctx context.Context, actor *domain.Principal, userID int64) (bool, error) {
	if err := requireManageUsers(actor); err != nil {
		return false, err
	}

	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, apperrors.NewNotFound("user", map[string]any{"id": userID})
		}
		return false, apperrors.MapError(err)
	}
	if target.Role == domain.RoleAdmin {
		return false, apperrors.NewForbidden("admin accounts cannot be deactivated")
	}

	active, err := s.users.ToggleActive(ctx, userID)
	if err != nil {
		return false, apperrors.MapError(err)
	}
	return active, nil
}

// ListUsers returns accounts ordered by id, optionally filtered by role.
func (s *UserService) ListUsers(ctx context.Context, actor *domain.Principal, roleFilter string) ([]domain.User, error) {
	if err := requireManageUsers(actor); err != nil {
		return nil, err
	}

	var role *domain.Role
	if roleFilter != "" && roleFilter != domain.StatusFilterAll {
		parsed, err := domain.ParseRole(roleFilter)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid role filter", map[string]any{"role": roleFilter})
		}
		role = &parsed
	}
	users, err := s.users.List(ctx, role)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// RoleCounts returns per-role account totals for the admin summary.
func (s *UserService) RoleCounts(ctx context.Context, actor *domain.Principal) (domain.RoleCounts, error) {
	if err := requireManageUsers(actor); err != nil {
		return domain.RoleCounts{}, err
	}
	counts, err := s.users.CountByRole(ctx)
	if err != nil {
		return domain.RoleCounts{}, apperrors.MapError(err)
	}
	return counts, nil
}
