package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/contacts/pkg/contact"
)

// ContactRepository implements contact.Repository in process memory.
type ContactRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]contact.Contact
	now  func() time.Time
}

func NewContactRepository() *ContactRepository {
	return &ContactRepository{byID: make(map[uuid.UUID]contact.Contact), now: time.Now}
}

func (r *ContactRepository) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]contact.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := []contact.Contact{}
	for _, c := range r.byID {
		if c.UserID == ownerID {
			res = append(res, c)
		}
	}
	// stable order
	sort.Slice(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].ID.String() < res[j].ID.String()
		}
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res, nil
}

func (r *ContactRepository) GetByID(_ context.Context, id uuid.UUID) (contact.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	if !ok {
		return contact.Contact{}, contact.ErrNotFound
	}
	return c, nil
}

func (r *ContactRepository) Create(_ context.Context, c contact.Contact) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[c.ID] = c
	return nil
}

func (r *ContactRepository) Update(_ context.Context, id uuid.UUID, p contact.Patch) (contact.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return contact.Contact{}, contact.ErrNotFound
	}
	c = p.Apply(c)
	c.UpdatedAt = r.now().UTC()
	r.byID[id] = c
	return c, nil
}

func (r *ContactRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return contact.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
