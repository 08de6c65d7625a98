package domain

import "time"

// TicketReply is one append-only entry in a ticket's thread. AuthorName is a
// snapshot of the author's display name at write time.
type TicketReply struct {
	ID         int64
	TicketID   int64
	AuthorID   int64
	AuthorName string
	Content    string
	CreatedAt  time.Time
}
