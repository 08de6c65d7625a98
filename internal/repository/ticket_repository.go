package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quickdesk/helpdesk-service/internal/domain"
)

// TicketFilter restricts ticket listings. A nil field means no restriction.
type TicketFilter struct {
	OwnerID  *int64
	Status   *domain.TicketStatus
	Category *string
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) error
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	// StatusCounts aggregates per-status totals over the owner scope, or
	// globally when ownerID is nil. Derived from the same predicate as List.
	StatusCounts(ctx context.Context, ownerID *int64) (domain.StatusCounts, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (subject, description, category, attachment, status, owner_id, owner_name)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Subject,
		ticket.Description,
		ticket.Category,
		ticket.Attachment,
		ticket.Status,
		ticket.OwnerID,
		ticket.OwnerName,
	).Scan(&ticket.ID, &ticket.CreatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	const query = `
        SELECT id, subject, description, category, attachment, status, owner_id, owner_name, created_at
        FROM tickets WHERE id=$1`

	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Subject,
		&ticket.Description,
		&ticket.Category,
		&ticket.Attachment,
		&ticket.Status,
		&ticket.OwnerID,
		&ticket.OwnerName,
		&ticket.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE tickets SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT id, subject, description, category, attachment, status, owner_id, owner_name, created_at
             FROM tickets`
	clauses := []string{}
	args := []any{}

	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("owner_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}

	query := base
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Subject,
			&ticket.Description,
			&ticket.Category,
			&ticket.Attachment,
			&ticket.Status,
			&ticket.OwnerID,
			&ticket.OwnerName,
			&ticket.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) StatusCounts(ctx context.Context, ownerID *int64) (domain.StatusCounts, error) {
	query := `
        SELECT
            COUNT(*) FILTER (WHERE status='Open'),
            COUNT(*) FILTER (WHERE status='In Progress'),
            COUNT(*) FILTER (WHERE status='Resolved'),
            COUNT(*) FILTER (WHERE status='Closed'),
            COUNT(*)
        FROM tickets`
	args := []any{}
	if ownerID != nil {
		args = append(args, *ownerID)
		query += ` WHERE owner_id=$1`
	}

	var counts domain.StatusCounts
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&counts.Open,
		&counts.InProgress,
		&counts.Resolved,
		&counts.Closed,
		&counts.All,
	); err != nil {
		return domain.StatusCounts{}, err
	}
	return counts, nil
}
