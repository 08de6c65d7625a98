package dto

import (
	"time"

	"github.com/quickdesk/helpdesk-service/internal/domain"
)

// ReplyRequest payload.
type ReplyRequest struct {
	Content string `json:"content"`
}

// SetStatusRequest payload.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// TicketSummary response.
type TicketSummary struct {
	ID         int64               `json:"id"`
	Subject    string              `json:"subject"`
	Category   string              `json:"category"`
	Status     domain.TicketStatus `json:"status"`
	OwnerID    int64               `json:"owner_id"`
	OwnerName  string              `json:"owner_name"`
	Attachment *string             `json:"attachment,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

// TicketDetailResponse provides full ticket info with the ordered thread.
type TicketDetailResponse struct {
	ID          int64               `json:"id"`
	Subject     string              `json:"subject"`
	Description string              `json:"description"`
	Category    string              `json:"category"`
	Status      domain.TicketStatus `json:"status"`
	OwnerID     int64               `json:"owner_id"`
	OwnerName   string              `json:"owner_name"`
	Attachment  *string             `json:"attachment,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	Replies     []ReplyResponse     `json:"replies"`
}

// ReplyResponse represents one thread entry.
type ReplyResponse struct {
	ID         int64     `json:"id"`
	AuthorID   int64     `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// StatusCountsResponse mirrors the per-status summary tabs.
type StatusCountsResponse struct {
	Open       int64 `json:"open"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
	Closed     int64 `json:"closed"`
	All        int64 `json:"all"`
}
