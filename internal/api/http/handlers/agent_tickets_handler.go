package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/quickdesk/helpdesk-service/internal/api/dto"
	"github.com/quickdesk/helpdesk-service/internal/auth"
	"github.com/quickdesk/helpdesk-service/internal/service"
	apperrors "github.com/quickdesk/helpdesk-service/pkg/util"
)

// AgentTicketsHandler exposes the agent triage endpoints.
type AgentTicketsHandler struct {
	service *service.TicketService
}

// NewAgentTicketsHandler constructs handler.
func NewAgentTicketsHandler(ticketService *service.TicketService) *AgentTicketsHandler {
	return &AgentTicketsHandler{service: ticketService}
}

// List handles GET /agent/tickets.
func (h *AgentTicketsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	tickets, err := h.service.ListAll(c.UserContext(), principal, c.Query("status"), c.Query("category"))
	if err != nil {
		return err
	}
	counts, err := h.service.CountsAll(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":   ticketSummaries(tickets),
		"counts": statusCounts(counts),
	})
}

// Get handles GET /agent/tickets/:id.
func (h *AgentTicketsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticketID, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}

	ticket, replies, err := h.service.Get(c.UserContext(), principal, ticketID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket, replies)})
}

// Reply handles POST /agent/tickets/:id/replies.
func (h *AgentTicketsHandler) Reply(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticketID, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}

	var req dto.ReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	reply, err := h.service.AddReply(c.UserContext(), principal, ticketID, req.Content)
	if err != nil {
		return err
	}
	if reply == nil {
		return c.SendStatus(http.StatusNoContent)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": replyResponse(reply)})
}

// SetStatus handles PATCH /agent/tickets/:id/status.
func (h *AgentTicketsHandler) SetStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticketID, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}

	var req dto.SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.SetStatus(c.UserContext(), principal, ticketID, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}
