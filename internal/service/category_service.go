package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/quickdesk/helpdesk-service/internal/auth"
	"github.com/quickdesk/helpdesk-service/internal/domain"
	"github.com/quickdesk/helpdesk-service/internal/repository"
	apperrors "github.com/quickdesk/helpdesk-service/pkg/util"
)

// CategoryService manages the ticket category registry.
type CategoryService struct {
	categories repository.CategoryRepository
}

// NewCategoryService constructs the service.
func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

func requireManageCategories(actor *domain.Principal) error {
	if actor == nil || !auth.Allows(actor.Role, auth.CapManageCategories) {
		return apperrors.NewForbidden("access denied")
	}
	return nil
}

// Add registers a new category. The name match is case-sensitive and exact.
func (s *CategoryService) Add(ctx context.Context, actor *domain.Principal, name string) (*domain.Category, error) {
	if err := requireManageCategories(actor); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("category name required", nil)
	}

	if _, err := s.categories.GetByName(ctx, name); err == nil {
		return nil, apperrors.NewDuplicateCategory(name)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	category := &domain.Category{Name: name}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// Remove deletes a category. Tickets already tagged with its name keep it.
func (s *CategoryService) Remove(ctx context.Context, actor *domain.Principal, id int64) error {
	if err := requireManageCategories(actor); err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("category", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// List returns all categories ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}
