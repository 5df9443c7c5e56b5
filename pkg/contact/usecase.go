package contact

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/contacts/pkg/apperr"
	"github.com/artem13815/contacts/pkg/auth"
)

// UseCase is the contact application service. Every method acts on behalf
// of a verified caller.
type UseCase interface {
	List(ctx context.Context, caller auth.Identity) ([]Contact, error)
	Create(ctx context.Context, caller auth.Identity, in CreateInput) (Contact, error)
	Get(ctx context.Context, caller auth.Identity, id string) (Contact, error)
	Update(ctx context.Context, caller auth.Identity, id string, p Patch) (Contact, error)
	Delete(ctx context.Context, caller auth.Identity, id string) (Contact, error)
}

type CreateInput struct {
	Name  string
	Email string
	Phone string
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) UseCase { return &service{repo: repo, now: time.Now} }

func (s *service) List(ctx context.Context, caller auth.Identity) ([]Contact, error) {
	cs, err := s.repo.ListByOwner(ctx, caller.UserID)
	if err != nil {
		return nil, apperr.Internal("contact.List", "failed to list contacts", err)
	}
	if cs == nil {
		cs = []Contact{}
	}
	return cs, nil
}

func (s *service) Create(ctx context.Context, caller auth.Identity, in CreateInput) (Contact, error) {
	const op = "contact.Create"
	if in.Name == "" || in.Email == "" || in.Phone == "" {
		return Contact{}, apperr.BadRequest(op, "All fields are mandatory")
	}
	now := s.now().UTC()
	c := Contact{
		ID:        uuid.New(),
		UserID:    caller.UserID,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return Contact{}, apperr.Internal(op, "failed to create contact", err)
	}
	return c, nil
}

func (s *service) Get(ctx context.Context, caller auth.Identity, id string) (Contact, error) {
	return s.owned(ctx, "contact.Get", caller, id)
}

func (s *service) Update(ctx context.Context, caller auth.Identity, id string, p Patch) (Contact, error) {
	const op = "contact.Update"
	c, err := s.owned(ctx, op, caller, id)
	if err != nil {
		return Contact{}, err
	}
	if p.Empty() {
		return c, nil
	}
	updated, err := s.repo.Update(ctx, c.ID, p)
	if err != nil {
		// The record was there a moment ago; an update that finds nothing
		// is a store invariant violation, not a 404.
		return Contact{}, apperr.Internal(op, "Failed to update the contact", err)
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, caller auth.Identity, id string) (Contact, error) {
	const op = "contact.Delete"
	c, err := s.owned(ctx, op, caller, id)
	if err != nil {
		return Contact{}, err
	}
	if err := s.repo.Delete(ctx, c.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Contact{}, apperr.NotFound(op, "Contact not found")
		}
		return Contact{}, apperr.Internal(op, "failed to delete contact", err)
	}
	return c, nil
}

// owned fetches the contact by id and applies the ownership policy.
func (s *service) owned(ctx context.Context, op string, caller auth.Identity, rawID string) (Contact, error) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		// No record can exist under an id that is not a UUID.
		return Contact{}, apperr.NotFound(op, "Contact not found")
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Contact{}, apperr.NotFound(op, "Contact not found")
		}
		return Contact{}, apperr.Internal(op, "failed to load contact", err)
	}
	if err := authorize(op, caller, c); err != nil {
		return Contact{}, err
	}
	return c, nil
}
