package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/quickdesk/helpdesk-service/internal/events"
	"github.com/quickdesk/helpdesk-service/internal/mail"
	"github.com/quickdesk/helpdesk-service/internal/repository"
)

// NotificationService emails ticket owners when their tickets change.
// Delivery is fire-and-forget: failures are logged, never propagated.
type NotificationService struct {
	dispatcher events.Dispatcher
	sender     mail.Sender
	tickets    repository.TicketRepository
	users      repository.UserRepository
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, sender mail.Sender, tickets repository.TicketRepository, users repository.UserRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		sender:     sender,
		tickets:    tickets,
		users:      users,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to ticket events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketReplied, n.handleTicketReplied)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleStatusChanged)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}
	n.send(ctx, payload.OwnerEmail,
		fmt.Sprintf("Ticket #%d received", event.TicketID),
		fmt.Sprintf("Your ticket %q has been received and is now Open.", payload.Subject))
	return nil
}

func (n *NotificationService) handleTicketReplied(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketRepliedPayload)
	if !ok {
		return nil
	}
	email, ok := n.ownerEmail(ctx, event.TicketID)
	if !ok {
		return nil
	}
	n.send(ctx, email,
		fmt.Sprintf("New reply on ticket #%d", event.TicketID),
		fmt.Sprintf("%s replied: %s", payload.AuthorName, payload.Preview))
	return nil
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return nil
	}
	email, ok := n.ownerEmail(ctx, event.TicketID)
	if !ok {
		return nil
	}
	n.send(ctx, email,
		fmt.Sprintf("Ticket #%d is now %s", event.TicketID, payload.NewStatus),
		fmt.Sprintf("Status changed from %s to %s.", payload.OldStatus, payload.NewStatus))
	return nil
}

func (n *NotificationService) ownerEmail(ctx context.Context, ticketID int64) (string, bool) {
	ticket, err := n.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			n.logger.Warn("notification lookup failed", zap.Int64("ticket_id", ticketID), zap.Error(err))
		}
		return "", false
	}
	owner, err := n.users.GetByID(ctx, ticket.OwnerID)
	if err != nil {
		return "", false
	}
	return owner.Email, true
}

func (n *NotificationService) send(ctx context.Context, to, subject, body string) {
	if to == "" {
		return
	}
	if err := n.sender.Send(ctx, mail.Message{To: to, Subject: subject, Body: body}); err != nil {
		n.logger.Warn("email send failed",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err))
	}
}
