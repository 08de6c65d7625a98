package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/quickdesk/helpdesk-service/internal/domain"
	"github.com/quickdesk/helpdesk-service/internal/events"
	"github.com/quickdesk/helpdesk-service/internal/repository"
	"github.com/quickdesk/helpdesk-service/internal/storage"
)

// In-memory repository implementations mirroring the Postgres behavior the
// services rely on, pgx.ErrNoRows included.

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ToggleActive(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return false, pgx.ErrNoRows
	}
	user.Active = !user.Active
	return user.Active, nil
}

func (r *fakeUserRepo) List(_ context.Context, role *domain.Role) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.User
	for _, user := range r.users {
		if role != nil && user.Role != *role {
			continue
		}
		result = append(result, *user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeUserRepo) CountByRole(_ context.Context) (domain.RoleCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var counts domain.RoleCounts
	for _, user := range r.users {
		switch user.Role {
		case domain.RoleUser:
			counts.Users++
		case domain.RoleAgent:
			counts.Agents++
		case domain.RoleAdmin:
			counts.Admins++
		}
		counts.Total++
	}
	return counts, nil
}

type fakeCategoryRepo struct {
	mu         sync.Mutex
	categories map[int64]*domain.Category
	nextID     int64
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[int64]*domain.Category)}
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	category.ID = r.nextID
	clone := *category
	r.categories[category.ID] = &clone
	return nil
}

func (r *fakeCategoryRepo) GetByName(_ context.Context, name string) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, category := range r.categories {
		if category.Name == name {
			clone := *category
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Category
	for _, category := range r.categories {
		result = append(result, *category)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets []*domain.Ticket
	nextID  int64
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	ticket.ID = r.nextID
	ticket.CreatedAt = time.Unix(r.nextID, 0)
	clone := *ticket
	r.tickets = append(r.tickets, &clone)
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ticket := range r.tickets {
		if ticket.ID == id {
			clone := *ticket
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) UpdateStatus(_ context.Context, id int64, status domain.TicketStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ticket := range r.tickets {
		if ticket.ID == id {
			ticket.Status = status
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeTicketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if filter.OwnerID != nil && ticket.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.Status != nil && ticket.Status != *filter.Status {
			continue
		}
		if filter.Category != nil && ticket.Category != *filter.Category {
			continue
		}
		result = append(result, *ticket)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *fakeTicketRepo) StatusCounts(_ context.Context, ownerID *int64) (domain.StatusCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var counts domain.StatusCounts
	for _, ticket := range r.tickets {
		if ownerID != nil && ticket.OwnerID != *ownerID {
			continue
		}
		switch ticket.Status {
		case domain.TicketStatusOpen:
			counts.Open++
		case domain.TicketStatusInProgress:
			counts.InProgress++
		case domain.TicketStatusResolved:
			counts.Resolved++
		case domain.TicketStatusClosed:
			counts.Closed++
		}
		counts.All++
	}
	return counts, nil
}

type fakeReplyRepo struct {
	mu      sync.Mutex
	replies []*domain.TicketReply
	nextID  int64
}

func newFakeReplyRepo() *fakeReplyRepo {
	return &fakeReplyRepo{}
}

func (r *fakeReplyRepo) Create(_ context.Context, reply *domain.TicketReply) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	reply.ID = r.nextID
	reply.CreatedAt = time.Unix(r.nextID, 0)
	clone := *reply
	r.replies = append(r.replies, &clone)
	return nil
}

func (r *fakeReplyRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.TicketReply, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.TicketReply
	for _, reply := range r.replies {
		if reply.TicketID == ticketID {
			result = append(result, *reply)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

type memSessionStore struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{revoked: make(map[string]bool)}
}

func (s *memSessionStore) Revoke(_ context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[sessionID] = true
	return nil
}

func (s *memSessionStore) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revoked[sessionID], nil
}

type memBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
	saves []string
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{blobs: make(map[string][]byte)}
}

func (s *memBlobStore) Save(_ context.Context, name string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[name] = data
	s.saves = append(s.saves, name)
	return name, nil
}

func (s *memBlobStore) Read(_ context.Context, ref string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[ref]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return data, nil
}

// captureDispatcher records published events for assertions.
type captureDispatcher struct {
	mu        sync.Mutex
	published []events.Event
}

func (d *captureDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.published = append(d.published, event)
	return nil
}

func (d *captureDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *captureDispatcher) events() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.Event{}, d.published...)
}
