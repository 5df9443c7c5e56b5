package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/artem13815/contacts/pkg/contact"
)

// ContactRepository stores contacts in PostgreSQL.
type ContactRepository struct {
	db  DB
	now func() time.Time
}

// NewContactRepository expects the users table to exist already.
func NewContactRepository(db DB) (*ContactRepository, error) {
	r := &ContactRepository{db: db, now: time.Now}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *ContactRepository) ensureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
CREATE TABLE IF NOT EXISTS contacts (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	phone TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_contacts_user ON contacts(user_id);
`)
	return err
}

const contactColumns = `id, user_id, name, email, phone, created_at, updated_at`

func scanContact(row pgx.Row) (contact.Contact, error) {
	var c contact.Contact
	var created, updated time.Time
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &created, &updated); err != nil {
		return contact.Contact{}, err
	}
	c.CreatedAt = created.UTC()
	c.UpdatedAt = updated.UTC()
	return c, nil
}

func (r *ContactRepository) Create(ctx context.Context, c contact.Contact) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = r.now().UTC()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}
	_, err := r.db.Exec(ctx, `
INSERT INTO contacts (id, user_id, name, email, phone, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`, c.ID, c.UserID, c.Name, c.Email, c.Phone, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *ContactRepository) GetByID(ctx context.Context, id uuid.UUID) (contact.Contact, error) {
	row := r.db.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id)
	c, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return contact.Contact{}, contact.ErrNotFound
		}
		return contact.Contact{}, err
	}
	return c, nil
}

func (r *ContactRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]contact.Contact, error) {
	rows, err := r.db.Query(ctx, `
SELECT `+contactColumns+`
FROM contacts
WHERE user_id = $1
ORDER BY created_at, id
`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []contact.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (r *ContactRepository) Update(ctx context.Context, id uuid.UUID, p contact.Patch) (contact.Contact, error) {
	row := r.db.QueryRow(ctx, `
UPDATE contacts SET
	name = COALESCE($2::text, name),
	email = COALESCE($3::text, email),
	phone = COALESCE($4::text, phone),
	updated_at = $5
WHERE id = $1
RETURNING `+contactColumns, id, p.Name, p.Email, p.Phone, r.now().UTC())
	c, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return contact.Contact{}, contact.ErrNotFound
		}
		return contact.Contact{}, err
	}
	return c, nil
}

func (r *ContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return contact.ErrNotFound
	}
	return nil
}
