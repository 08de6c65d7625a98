package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickdesk/helpdesk-service/internal/domain"
	"github.com/quickdesk/helpdesk-service/internal/events"
)

type ticketFixture struct {
	svc        *TicketService
	tickets    *fakeTicketRepo
	replies    *fakeReplyRepo
	blobs      *memBlobStore
	dispatcher *captureDispatcher
}

func newTicketFixture() *ticketFixture {
	fx := &ticketFixture{
		tickets:    newFakeTicketRepo(),
		replies:    newFakeReplyRepo(),
		blobs:      newMemBlobStore(),
		dispatcher: &captureDispatcher{},
	}
	fx.svc = NewTicketService(TicketDependencies{
		TicketRepo: fx.tickets,
		ReplyRepo:  fx.replies,
		BlobStore:  fx.blobs,
		Dispatcher: fx.dispatcher,
	})
	return fx
}

func userPrincipal(id int64, name string) *domain.Principal {
	return &domain.Principal{UserID: id, Name: name, Email: name + "@example.com", Role: domain.RoleUser}
}

func agentPrincipal() *domain.Principal {
	return &domain.Principal{UserID: 100, Name: "Agent", Email: "agent@example.com", Role: domain.RoleAgent}
}

func TestTicketCreate(t *testing.T) {
	ctx := context.Background()
	fx := newTicketFixture()
	alice := userPrincipal(1, "Alice")

	ticket, err := fx.svc.Create(ctx, alice, TicketCreateInput{
		Subject:     "Printer on fire",
		Description: "Smoke everywhere",
		Category:    "Technical",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, int64(1), ticket.OwnerID)
	assert.Equal(t, "Alice", ticket.OwnerName)
	assert.Nil(t, ticket.Attachment)

	published := fx.dispatcher.events()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventTicketCreated, published[0].Type)
	assert.Equal(t, ticket.ID, published[0].TicketID)
}

func TestTicketCreateWithAttachment(t *testing.T) {
	ctx := context.Background()
	fx := newTicketFixture()

	ticket, err := fx.svc.Create(ctx, userPrincipal(1, "Alice"), TicketCreateInput{
		Subject:     "Invoice question",
		Description: "See attachment",
		Category:    "Billing",
		Attachment:  &AttachmentUpload{FileName: "invoice.pdf", Data: []byte("pdf-bytes")},
	})
	require.NoError(t, err)
	require.NotNil(t, ticket.Attachment)
	assert.Equal(t, "invoice.pdf", *ticket.Attachment)

	require.Len(t, fx.blobs.saves, 1, "blob must be saved before the row is committed")
	data, err := fx.blobs.Read(ctx, *ticket.Attachment)
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf-bytes"), data)
}

func TestTicketCreateValidation(t *testing.T) {
	ctx := context.Background()
	fx := newTicketFixture()
	alice := userPrincipal(1, "Alice")

	_, err := fx.svc.Create(ctx, alice, TicketCreateInput{Subject: " ", Description: "d", Category: "c"})
	requireCode(t, err, "VALIDATION_FAILED")
	_, err = fx.svc.Create(ctx, alice, TicketCreateInput{Subject: "s", Description: "", Category: "c"})
	requireCode(t, err, "VALIDATION_FAILED")
	_, err = fx.svc.Create(ctx, alice, TicketCreateInput{Subject: "s", Description: "d", Category: ""})
	requireCode(t, err, "VALIDATION_FAILED")
	assert.Empty(t, fx.dispatcher.events())
}

func TestTicketCreateRoleGate(t *testing.T) {
	ctx := context.Background()
	fx := newTicketFixture()
	input := TicketCreateInput{Subject: "s", Description: "d", Category: "c"}

	_, err := fx.svc.Create(ctx, agentPrincipal(), input)
	requireCode(t, err, "FORBIDDEN")
	_, err = fx.svc.Create(ctx, adminPrincipal(), input)
	requireCode(t, err, "FORBIDDEN")
}

func TestTicketGetOwnership(t *testing.T) {
	ctx := context.Background()
	fx := newTicketFixture()
	alice := userPrincipal(1, "Alice")
	mallory := userPrincipal(2, "Mallory")

	created, err := fx.svc.Create(ctx, alice, TicketCreateInput{Subject: "s", Description: "d", Category: "c"})
	require.NoError(t, err)

	got, replies, err := fx.svc.Get(ctx, alice, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Empty(t, replies)

	// the ticket exists; another user is refused, not told it is missing
	_, _, err = fx.svc.Get(ctx, mallory, created.ID)
	requireCode(t, err, "FORBIDDEN")

	_, _, err = fx.svc.Get(ctx, agentPrincipal(), created.ID)
	assert.NoError(t, err)
	_, _, err = fx.svc.Get(ctx, adminPrincipal(), created.ID)
	assert.NoError(t, err)
}

func TestTicketGetMissing(t *testing.T) {
	fx := newTicketFixture()
	_, _, err := fx.svc.Get(context.Background(), agentPrincipal(), 404)
	requireCode(t, err, "NOT_FOUND")
}

func TestAddReply(t *testing.T) {
	ctx := context.Background()
	fx := newTicketFixture()
	alice := userPrincipal(1, "Alice")

	ticket, err := fx.svc.Create(ctx, alice, TicketCreateInput{Subject: "s", Description: "d", Category: "c"})
	require.NoError(t, err)

	first, err := fx.svc.AddReply(ctx, alice, ticket.ID, "any update?")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "Alice", first.AuthorName)

	second, err := fx.svc.AddReply(ctx, agentPrincipal(), ticket.ID, "looking into it")
	require.NoError(t, err)
	require.NotNil(t, second)

	_, replies, err := fx.svc.Get(ctx, alice, ticket.ID)
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, "any update?", replies[0].Content)
	assert.Equal(t, "looking into it", replies[1].Content)
}

func TestAddReplyBlankIsNoOp(t *testing.T) {
	ctx := context.Background()
	fx := newTicketFixture()
	alice := userPrincipal(1, "Alice")

	ticket, err := fx.svc.Create(ctx, alice, TicketCreateInput{Subject: "s", Description: "d", Category: "c"})
	require.NoError(t, err)
	publishedBefore := len(fx.dispatcher.events())

	reply, err := fx.svc.AddReply(ctx, alice, ticket.ID, "   \n\t ")
	require.NoError(t, err)
	assert.Nil(t, reply)

	_, replies, err := fx.svc.Get(ctx, alice, ticket.ID)
	require.NoError(t, err)
	assert.Empty(t, replies)
	assert.Len(t, fx.dispatcher.events(), publishedBefore)
}

func TestAddReplyCrossOwner(t *testing.T) {
	ctx := context.Background()
	fx := newTicketFixture()
	alice := userPrincipal(1, "Alice")
	mallory := userPrincipal(2, "Mallory")

	ticket, err := fx.svc.Create(ctx, alice, TicketCreateInput{Subject: "s", Description: "d", Category: "c"})
	require.NoError(t, err)

	_, err = fx.svc.AddReply(ctx, mallory, ticket.ID, "mine now")
	requireCode(t, err, "FORBIDDEN")

	_, err = fx.svc.AddReply(ctx, adminPrincipal(), ticket.ID, "admin cannot join threads")
	requireCode(t, err, "FORBIDDEN")
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()
	fx := newTicketFixture()
	alice := userPrincipal(1, "Alice")
	agent := agentPrincipal()

	ticket, err := fx.svc.Create(ctx, alice, TicketCreateInput{Subject: "s", Description: "d", Category: "c"})
	require.NoError(t, err)

	// no transition guard: any member of the set is reachable from any other
	for _, status := range []string{"Closed", "In Progress", "Resolved", "Open", "Closed"} {
		updated, err := fx.svc.SetStatus(ctx, agent, ticket.ID, status)
		require.NoError(t, err)
		assert.Equal(t, domain.TicketStatus(status), updated.Status)
	}

	_, err = fx.svc.SetStatus(ctx, agent, ticket.ID, "Escalated")
	requireCode(t, err, "INVALID_STATUS")

	_, err = fx.svc.SetStatus(ctx, alice, ticket.ID, "Closed")
	requireCode(t, err, "FORBIDDEN")
	_, err = fx.svc.SetStatus(ctx, adminPrincipal(), ticket.ID, "Closed")
	requireCode(t, err, "FORBIDDEN")

	_, err = fx.svc.SetStatus(ctx, agent, 404, "Closed")
	requireCode(t, err, "NOT_FOUND")
}

func TestSetStatusPublishesTransition(t *testing.T) {
	ctx := context.Background()
	fx := newTicketFixture()

	ticket, err := fx.svc.Create(ctx, userPrincipal(1, "Alice"), TicketCreateInput{Subject: "s", Description: "d", Category: "c"})
	require.NoError(t, err)

	_, err = fx.svc.SetStatus(ctx, agentPrincipal(), ticket.ID, "Resolved")
	require.NoError(t, err)

	published := fx.dispatcher.events()
	last := published[len(published)-1]
	require.Equal(t, events.EventTicketStatusChanged, last.Type)
	payload, ok := last.Payload.(events.TicketStatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, domain.TicketStatusOpen, payload.OldStatus)
	assert.Equal(t, domain.TicketStatusResolved, payload.NewStatus)
}

func TestListForOwner(t *testing.T) {
	ctx := context.Background()
	fx := newTicketFixture()
	alice := userPrincipal(1, "Alice")
	bob := userPrincipal(2, "Bob")

	for _, subject := range []string{"first", "second"} {
		_, err := fx.svc.Create(ctx, alice, TicketCreateInput{Subject: subject, Description: "d", Category: "c"})
		require.NoError(t, err)
	}
	other, err := fx.svc.Create(ctx, bob, TicketCreateInput{Subject: "bobs", Description: "d", Category: "c"})
	require.NoError(t, err)

	mine, err := fx.svc.ListForOwner(ctx, alice, "")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "second", mine[0].Subject, "newest first")
	for _, ticket := range mine {
		assert.NotEqual(t, other.ID, ticket.ID)
	}

	_, err = fx.svc.SetStatus(ctx, agentPrincipal(), mine[0].ID, "Closed")
	require.NoError(t, err)

	closed, err := fx.svc.ListForOwner(ctx, alice, "Closed")
	require.NoError(t, err)
	require.Len(t, closed, 1)

	all, err := fx.svc.ListForOwner(ctx, alice, "all")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = fx.svc.ListForOwner(ctx, alice, "Nonsense")
	requireCode(t, err, "INVALID_STATUS")
}

func TestListAll(t *testing.T) {
	ctx := context.Background()
	fx := newTicketFixture()

	_, err := fx.svc.Create(ctx, userPrincipal(1, "Alice"), TicketCreateInput{Subject: "a", Description: "d", Category: "Technical"})
	require.NoError(t, err)
	_, err = fx.svc.Create(ctx, userPrincipal(2, "Bob"), TicketCreateInput{Subject: "b", Description: "d", Category: "Billing"})
	require.NoError(t, err)

	all, err := fx.svc.ListAll(ctx, agentPrincipal(), "", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	billing, err := fx.svc.ListAll(ctx, adminPrincipal(), "all", "Billing")
	require.NoError(t, err)
	require.Len(t, billing, 1)
	assert.Equal(t, "b", billing[0].Subject)

	_, err = fx.svc.ListAll(ctx, userPrincipal(1, "Alice"), "", "")
	requireCode(t, err, "FORBIDDEN")
}

func TestStatusCounts(t *testing.T) {
	ctx := context.Background()
	fx := newTicketFixture()
	alice := userPrincipal(1, "Alice")
	agent := agentPrincipal()

	var ids []int64
	for i := 0; i < 4; i++ {
		ticket, err := fx.svc.Create(ctx, alice, TicketCreateInput{Subject: "s", Description: "d", Category: "c"})
		require.NoError(t, err)
		ids = append(ids, ticket.ID)
	}
	_, err := fx.svc.Create(ctx, userPrincipal(2, "Bob"), TicketCreateInput{Subject: "s", Description: "d", Category: "c"})
	require.NoError(t, err)

	_, err = fx.svc.SetStatus(ctx, agent, ids[0], "In Progress")
	require.NoError(t, err)
	_, err = fx.svc.SetStatus(ctx, agent, ids[1], "Resolved")
	require.NoError(t, err)
	_, err = fx.svc.SetStatus(ctx, agent, ids[2], "Closed")
	require.NoError(t, err)

	mine, err := fx.svc.CountsForOwner(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), mine.Open)
	assert.Equal(t, int64(1), mine.InProgress)
	assert.Equal(t, int64(1), mine.Resolved)
	assert.Equal(t, int64(1), mine.Closed)
	assert.Equal(t, mine.Open+mine.InProgress+mine.Resolved+mine.Closed, mine.All)

	global, err := fx.svc.CountsAll(ctx, agent)
	require.NoError(t, err)
	assert.Equal(t, int64(5), global.All)
	assert.Equal(t, int64(2), global.Open)

	_, err = fx.svc.CountsAll(ctx, alice)
	requireCode(t, err, "FORBIDDEN")
}

func TestAttachmentRead(t *testing.T) {
	ctx := context.Background()
	fx := newTicketFixture()
	alice := userPrincipal(1, "Alice")

	_, err := fx.svc.Create(ctx, alice, TicketCreateInput{
		Subject:     "s",
		Description: "d",
		Category:    "c",
		Attachment:  &AttachmentUpload{FileName: "log.txt", Data: []byte("trace")},
	})
	require.NoError(t, err)

	data, err := fx.svc.Attachment(ctx, alice, "log.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("trace"), data)

	_, err = fx.svc.Attachment(ctx, alice, "missing.txt")
	requireCode(t, err, "NOT_FOUND")

	_, err = fx.svc.Attachment(ctx, nil, "log.txt")
	requireCode(t, err, "UNAUTHORIZED")
}
