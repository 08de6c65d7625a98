package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/quickdesk/helpdesk-service/internal/auth"
	"github.com/quickdesk/helpdesk-service/internal/domain"
	"github.com/quickdesk/helpdesk-service/internal/events"
	"github.com/quickdesk/helpdesk-service/internal/repository"
	"github.com/quickdesk/helpdesk-service/internal/storage"
	apperrors "github.com/quickdesk/helpdesk-service/pkg/util"
)

// TicketService coordinates the ticket lifecycle.
type TicketService struct {
	tickets    repository.TicketRepository
	replies    repository.ReplyRepository
	blobs      storage.BlobStore
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	ReplyRepo  repository.ReplyRepository
	BlobStore  storage.BlobStore
	Dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		replies:    deps.ReplyRepo,
		blobs:      deps.BlobStore,
		dispatcher: deps.Dispatcher,
	}
}

// AttachmentUpload carries an optional attachment for ticket creation.
type AttachmentUpload struct {
	FileName string
	Data     []byte
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Subject     string
	Description string
	Category    string
	Attachment  *AttachmentUpload
}

// Create opens a new ticket owned by the acting user. The attachment blob,
// when present, is saved before the ticket row is committed: a crash between
// the two leaves an orphaned blob, never a dangling reference.
func (s *TicketService) Create(ctx context.Context, actor *domain.Principal, input TicketCreateInput) (*domain.Ticket, error) {
	if actor == nil || !auth.Allows(actor.Role, auth.CapCreateTicket) {
		return nil, apperrors.NewForbidden("access denied")
	}

	subject := strings.TrimSpace(input.Subject)
	description := strings.TrimSpace(input.Description)
	category := strings.TrimSpace(input.Category)
	if subject == "" || description == "" || category == "" {
		return nil, apperrors.NewValidationError("subject, description, category required", nil)
	}

	var attachmentRef *string
	if input.Attachment != nil && len(input.Attachment.Data) > 0 {
		ref, err := s.blobs.Save(ctx, input.Attachment.FileName, input.Attachment.Data)
		if err != nil {
			if errors.Is(err, storage.ErrTooLarge) {
				return nil, apperrors.NewValidationError("attachment too large", nil)
			}
			return nil, apperrors.NewUnavailable(err)
		}
		attachmentRef = &ref
	}

	ticket := &domain.Ticket{
		Subject:     subject,
		Description: description,
		Category:    category,
		Attachment:  attachmentRef,
		Status:      domain.TicketStatusOpen,
		OwnerID:     actor.UserID,
		OwnerName:   actor.Name,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    events.Actor{UserID: actor.UserID, Role: actor.Role},
		Payload: events.TicketCreatedPayload{
			Subject:    ticket.Subject,
			Category:   ticket.Category,
			OwnerID:    ticket.OwnerID,
			OwnerEmail: actor.Email,
		},
	})
	return ticket, nil
}

// Get fetches a ticket with its ordered reply thread. Users may only view
// their own tickets; viewing someone else's is denied, not hidden.
func (s *TicketService) Get(ctx context.Context, actor *domain.Principal, ticketID int64) (*domain.Ticket, []domain.TicketReply, error) {
	ticket, err := s.fetch(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.authorizeView(actor, ticket); err != nil {
		return nil, nil, err
	}

	replies, err := s.replies.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return ticket, replies, nil
}

// AddReply appends to the ticket's thread. Blank content is silently
// dropped rather than rejected; the thread and status are left untouched.
func (s *TicketService) AddReply(ctx context.Context, actor *domain.Principal, ticketID int64, content string) (*domain.TicketReply, error) {
	if actor == nil || !auth.Allows(actor.Role, auth.CapReply) {
		return nil, apperrors.NewForbidden("access denied")
	}

	ticket, err := s.fetch(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleUser && ticket.OwnerID != actor.UserID {
		return nil, apperrors.NewForbidden("access denied")
	}

	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	reply := &domain.TicketReply{
		TicketID:   ticket.ID,
		AuthorID:   actor.UserID,
		AuthorName: actor.Name,
		Content:    content,
	}
	if err := s.replies.Create(ctx, reply); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketReplied,
		TicketID: ticket.ID,
		Actor:    events.Actor{UserID: actor.UserID, Role: actor.Role},
		Payload: events.TicketRepliedPayload{
			ReplyID:    reply.ID,
			AuthorName: reply.AuthorName,
			Preview:    preview(reply.Content, 120),
		},
	})
	return reply, nil
}

// SetStatus moves a ticket to any status in the enumerated set. There is no
// transition guard: Closed tickets can be reopened to In Progress and back.
func (s *TicketService) SetStatus(ctx context.Context, actor *domain.Principal, ticketID int64, statusValue string) (*domain.Ticket, error) {
	if actor == nil || !auth.Allows(actor.Role, auth.CapSetStatus) {
		return nil, apperrors.NewForbidden("access denied")
	}

	newStatus, err := domain.ParseTicketStatus(statusValue)
	if err != nil {
		return nil, apperrors.NewInvalidStatus(statusValue)
	}

	ticket, err := s.fetch(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	if err := s.tickets.UpdateStatus(ctx, ticket.ID, newStatus); err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket.Status = newStatus

	s.publish(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    events.Actor{UserID: actor.UserID, Role: actor.Role},
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	return ticket, nil
}

// ListForOwner returns the actor's tickets, newest first.
func (s *TicketService) ListForOwner(ctx context.Context, actor *domain.Principal, statusFilter string) ([]domain.Ticket, error) {
	if actor == nil || !auth.Allows(actor.Role, auth.CapViewOwnTickets) {
		return nil, apperrors.NewForbidden("access denied")
	}
	filter := repository.TicketFilter{OwnerID: &actor.UserID}
	if err := applyStatusFilter(&filter, statusFilter); err != nil {
		return nil, err
	}
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ListAll returns every ticket, newest first, for agents and admins.
func (s *TicketService) ListAll(ctx context.Context, actor *domain.Principal, statusFilter, categoryFilter string) ([]domain.Ticket, error) {
	if actor == nil || !auth.Allows(actor.Role, auth.CapViewAllTickets) {
		return nil, apperrors.NewForbidden("access denied")
	}
	filter := repository.TicketFilter{}
	if err := applyStatusFilter(&filter, statusFilter); err != nil {
		return nil, err
	}
	if categoryFilter != "" && categoryFilter != domain.StatusFilterAll {
		filter.Category = &categoryFilter
	}
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// CountsForOwner aggregates the actor's tickets per status.
func (s *TicketService) CountsForOwner(ctx context.Context, actor *domain.Principal) (domain.StatusCounts, error) {
	if actor == nil || !auth.Allows(actor.Role, auth.CapViewOwnTickets) {
		return domain.StatusCounts{}, apperrors.NewForbidden("access denied")
	}
	counts, err := s.tickets.StatusCounts(ctx, &actor.UserID)
	if err != nil {
		return domain.StatusCounts{}, apperrors.MapError(err)
	}
	return counts, nil
}

// CountsAll aggregates every ticket per status.
func (s *TicketService) CountsAll(ctx context.Context, actor *domain.Principal) (domain.StatusCounts, error) {
	if actor == nil || !auth.Allows(actor.Role, auth.CapViewAllTickets) {
		return domain.StatusCounts{}, apperrors.NewForbidden("access denied")
	}
	counts, err := s.tickets.StatusCounts(ctx, nil)
	if err != nil {
		return domain.StatusCounts{}, apperrors.MapError(err)
	}
	return counts, nil
}

// Attachment streams a stored blob for any authenticated principal.
func (s *TicketService) Attachment(ctx context.Context, actor *domain.Principal, name string) ([]byte, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	data, err := s.blobs.Read(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.NewNotFound("attachment", map[string]any{"name": name})
		}
		return nil, apperrors.NewUnavailable(err)
	}
	return data, nil
}

func (s *TicketService) fetch(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) authorizeView(actor *domain.Principal, ticket *domain.Ticket) error {
	if actor == nil {
		return apperrors.NewForbidden("access denied")
	}
	if auth.Allows(actor.Role, auth.CapViewAllTickets) {
		return nil
	}
	if auth.Allows(actor.Role, auth.CapViewOwnTickets) && ticket.OwnerID == actor.UserID {
		return nil
	}
	return apperrors.NewForbidden("access denied")
}

func applyStatusFilter(filter *repository.TicketFilter, statusFilter string) error {
	if statusFilter == "" || statusFilter == domain.StatusFilterAll {
		return nil
	}
	status, err := domain.ParseTicketStatus(statusFilter)
	if err != nil {
		return apperrors.NewInvalidStatus(statusFilter)
	}
	filter.Status = &status
	return nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func preview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
