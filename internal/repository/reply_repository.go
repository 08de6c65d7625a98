package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quickdesk/helpdesk-service/internal/domain"
)

// ReplyRepository manages ticket thread replies.
type ReplyRepository interface {
	Create(ctx context.Context, reply *domain.TicketReply) error
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.TicketReply, error)
}

type replyRepository struct {
	pool *pgxpool.Pool
}

// NewReplyRepository builds repository.
func NewReplyRepository(pool *pgxpool.Pool) ReplyRepository {
	return &replyRepository{pool: pool}
}

func (r *replyRepository) Create(ctx context.Context, reply *domain.TicketReply) error {
	const query = `
        INSERT INTO ticket_replies (ticket_id, author_id, author_name, content)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		reply.TicketID,
		reply.AuthorID,
		reply.AuthorName,
		reply.Content,
	).Scan(&reply.ID, &reply.CreatedAt)
}

func (r *replyRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.TicketReply, error) {
	const query = `
        SELECT id, ticket_id, author_id, author_name, content, created_at
        FROM ticket_replies WHERE ticket_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketReply
	for rows.Next() {
		var reply domain.TicketReply
		if err := rows.Scan(
			&reply.ID,
			&reply.TicketID,
			&reply.AuthorID,
			&reply.AuthorName,
			&reply.Content,
			&reply.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, reply)
	}
	return result, rows.Err()
}
