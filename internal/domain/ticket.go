package domain

import (
	"fmt"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
	TicketStatusClosed     TicketStatus = "Closed"
)

// StatusFilterAll is the sentinel accepted by list operations to disable
// status filtering.
const StatusFilterAll = "all"

// ParseTicketStatus validates a status value. Any member of the set is a
// legal target from any prior state; there is no transition guard.
func ParseTicketStatus(value string) (TicketStatus, error) {
	switch TicketStatus(value) {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return TicketStatus(value), nil
	}
	return "", fmt.Errorf("unknown ticket status %q", value)
}

// Ticket is the aggregate for a single support request.
//
// Category and OwnerName are snapshots captured at creation time. Later
// category deletions or display-name changes leave past tickets untouched.
type Ticket struct {
	ID          int64
	Subject     string
	Description string
	Category    string
	Attachment  *string
	Status      TicketStatus
	OwnerID     int64
	OwnerName   string
	CreatedAt   time.Time
}

// StatusCounts holds per-status ticket totals for a fixed scope.
type StatusCounts struct {
	Open       int64
	InProgress int64
	Resolved   int64
	Closed     int64
	All        int64
}
