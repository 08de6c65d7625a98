package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/quickdesk/helpdesk-service/internal/api/dto"
	"github.com/quickdesk/helpdesk-service/internal/auth"
	"github.com/quickdesk/helpdesk-service/internal/domain"
	"github.com/quickdesk/helpdesk-service/internal/service"
	apperrors "github.com/quickdesk/helpdesk-service/pkg/util"
)

// AdminHandler exposes account and category management plus the read-only
// ticket dashboard.
type AdminHandler struct {
	users      *service.UserService
	categories *service.CategoryService
	tickets    *service.TicketService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(users *service.UserService, categories *service.CategoryService, tickets *service.TicketService) *AdminHandler {
	return &AdminHandler{users: users, categories: categories, tickets: tickets}
}

// ListTickets handles GET /admin/tickets with status and category filters.
func (h *AdminHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	tickets, err := h.tickets.ListAll(c.UserContext(), principal, c.Query("status"), c.Query("category"))
	if err != nil {
		return err
	}
	counts, err := h.tickets.CountsAll(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":   ticketSummaries(tickets),
		"counts": statusCounts(counts),
	})
}

// GetTicket handles GET /admin/tickets/:id (read-only view).
func (h *AdminHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticketID, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}

	ticket, replies, err := h.tickets.Get(c.UserContext(), principal, ticketID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket, replies)})
}

// CreateAgent handles POST /admin/agents.
func (h *AdminHandler) CreateAgent(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateAgentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	agent, err := h.users.CreateAgent(c.UserContext(), principal, req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": userResponse(agent)})
}

// ListUsers handles GET /admin/users with an optional role filter.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	users, err := h.users.ListUsers(c.UserContext(), principal, c.Query("role"))
	if err != nil {
		return err
	}
	counts, err := h.users.RoleCounts(c.UserContext(), principal)
	if err != nil {
		return err
	}

	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return c.JSON(fiber.Map{
		"data": items,
		"counts": dto.RoleCountsResponse{
			Users:  counts.Users,
			Agents: counts.Agents,
			Admins: counts.Admins,
			Total:  counts.Total,
		},
	})
}

// ToggleUserActive handles POST /admin/users/:id/toggle-active.
func (h *AdminHandler) ToggleUserActive(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	userID, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}

	active, err := h.users.ToggleActive(c.UserContext(), principal, userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToggleActiveResponse{UserID: userID, Active: active}})
}

// AddCategory handles POST /admin/categories.
func (h *AdminHandler) AddCategory(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	category, err := h.categories.Add(c.UserContext(), principal, req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.CategoryResponse{ID: category.ID, Name: category.Name},
	})
}

// ListCategories handles GET /admin/categories.
func (h *AdminHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.categories.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		items = append(items, dto.CategoryResponse{ID: category.ID, Name: category.Name})
	}
	return c.JSON(fiber.Map{"data": items})
}

// RemoveCategory handles DELETE /admin/categories/:id.
func (h *AdminHandler) RemoveCategory(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	categoryID, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}

	if err := h.categories.Remove(c.UserContext(), principal, categoryID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:     user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   string(user.Role),
		Active: user.Active,
	}
}
