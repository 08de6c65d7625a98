package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quickdesk/helpdesk-service/internal/auth"
	"github.com/quickdesk/helpdesk-service/internal/service"
	apperrors "github.com/quickdesk/helpdesk-service/pkg/util"
)

// AttachmentsHandler serves stored ticket attachments.
type AttachmentsHandler struct {
	service *service.TicketService
}

// NewAttachmentsHandler constructs handler.
func NewAttachmentsHandler(ticketService *service.TicketService) *AttachmentsHandler {
	return &AttachmentsHandler{service: ticketService}
}

// Get handles GET /attachments/:name for any authenticated principal.
func (h *AttachmentsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	data, err := h.service.Attachment(c.UserContext(), principal, c.Params("name"))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentDisposition, "attachment; filename=\""+c.Params("name")+"\"")
	return c.Send(data)
}
