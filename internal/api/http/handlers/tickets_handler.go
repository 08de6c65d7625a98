package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/quickdesk/helpdesk-service/internal/api/dto"
	"github.com/quickdesk/helpdesk-service/internal/auth"
	"github.com/quickdesk/helpdesk-service/internal/domain"
	"github.com/quickdesk/helpdesk-service/internal/service"
	apperrors "github.com/quickdesk/helpdesk-service/pkg/util"
)

// TicketsHandler manages end-user ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Create handles POST /tickets. The body is multipart form data so an
// attachment can ride along with the ticket fields.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	input := service.TicketCreateInput{
		Subject:     c.FormValue("subject"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
	}

	if fileHeader, err := c.FormFile("attachment"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			return apperrors.NewValidationError("unreadable attachment", nil)
		}
		data, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			return apperrors.NewValidationError("unreadable attachment", nil)
		}
		input.Attachment = &service.AttachmentUpload{
			FileName: fileHeader.Filename,
			Data:     data,
		}
	}

	ticket, err := h.service.Create(c.UserContext(), principal, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// List handles GET /tickets with an optional status filter plus counts.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	tickets, err := h.service.ListForOwner(c.UserContext(), principal, c.Query("status"))
	if err != nil {
		return err
	}
	counts, err := h.service.CountsForOwner(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":   ticketSummaries(tickets),
		"counts": statusCounts(counts),
	})
}

// Get handles GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
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

// Reply handles POST /tickets/:id/replies. Blank content is dropped
// silently and answered with 204.
func (h *TicketsHandler) Reply(c *fiber.Ctx) error {
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

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", map[string]any{"id": raw})
	}
	return id, nil
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:         ticket.ID,
		Subject:    ticket.Subject,
		Category:   ticket.Category,
		Status:     ticket.Status,
		OwnerID:    ticket.OwnerID,
		OwnerName:  ticket.OwnerName,
		Attachment: ticket.Attachment,
		CreatedAt:  ticket.CreatedAt,
	}
}

func ticketSummaries(tickets []domain.Ticket) []dto.TicketSummary {
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return items
}

func ticketDetail(ticket *domain.Ticket, replies []domain.TicketReply) dto.TicketDetailResponse {
	replyItems := make([]dto.ReplyResponse, 0, len(replies))
	for i := range replies {
		replyItems = append(replyItems, replyResponse(&replies[i]))
	}
	return dto.TicketDetailResponse{
		ID:          ticket.ID,
		Subject:     ticket.Subject,
		Description: ticket.Description,
		Category:    ticket.Category,
		Status:      ticket.Status,
		OwnerID:     ticket.OwnerID,
		OwnerName:   ticket.OwnerName,
		Attachment:  ticket.Attachment,
		CreatedAt:   ticket.CreatedAt,
		Replies:     replyItems,
	}
}

func replyResponse(reply *domain.TicketReply) dto.ReplyResponse {
	return dto.ReplyResponse{
		ID:         reply.ID,
		AuthorID:   reply.AuthorID,
		AuthorName: reply.AuthorName,
		Content:    reply.Content,
		CreatedAt:  reply.CreatedAt,
	}
}

func statusCounts(counts domain.StatusCounts) dto.StatusCountsResponse {
	return dto.StatusCountsResponse{
		Open:       counts.Open,
		InProgress: counts.InProgress,
		Resolved:   counts.Resolved,
		Closed:     counts.Closed,
		All:        counts.All,
	}
}
