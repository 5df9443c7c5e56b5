package contact

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("contact not found")

// Repository is the contact store port. It does not filter by owner on
// reads by id: ownership is decided by the use case.
type Repository interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Contact, error)
	GetByID(ctx context.Context, id uuid.UUID) (Contact, error)
	Create(ctx context.Context, c Contact) error
	// Update applies the patch and returns the stored record afterwards.
	Update(ctx context.Context, id uuid.UUID, p Patch) (Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
