package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/artem13815/contacts/pkg/contact"
)

type contactDoc struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email"`
	Phone     string    `bson:"phone"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func toDoc(c contact.Contact) contactDoc {
	return contactDoc{
		ID:        c.ID.String(),
		UserID:    c.UserID.String(),
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (d contactDoc) toContact() (contact.Contact, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return contact.Contact{}, err
	}
	owner, err := uuid.Parse(d.UserID)
	if err != nil {
		return contact.Contact{}, err
	}
	return contact.Contact{
		ID:        id,
		UserID:    owner,
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}, nil
}

// ContactRepository implements contact.Repository over the contacts collection.
type ContactRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewContactRepository(ctx context.Context, db *mongo.Database) (*ContactRepository, error) {
	coll := db.Collection("contacts")
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	if err != nil {
		return nil, err
	}
	return &ContactRepository{coll: coll, now: time.Now}, nil
}

func (r *ContactRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]contact.Contact, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"user_id": ownerID.String()}, opts)
	if err != nil {
		return nil, err
	}
	var docs []contactDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	res := make([]contact.Contact, 0, len(docs))
	for _, d := range docs {
		c, err := d.toContact()
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, nil
}

func (r *ContactRepository) GetByID(ctx context.Context, id uuid.UUID) (contact.Contact, error) {
	var doc contactDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return contact.Contact{}, contact.ErrNotFound
		}
		return contact.Contact{}, err
	}
	return doc.toContact()
}

func (r *ContactRepository) Create(ctx context.Context, c contact.Contact) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = r.now().UTC()
		c.UpdatedAt = c.CreatedAt
	}
	_, err := r.coll.InsertOne(ctx, toDoc(c))
	return err
}

// patchSet lists the fields p changes; nil fields keep their stored value.
func patchSet(p contact.Patch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Email != nil {
		set["email"] = *p.Email
	}
	if p.Phone != nil {
		set["phone"] = *p.Phone
	}
	return set
}

func (r *ContactRepository) Update(ctx context.Context, id uuid.UUID, p contact.Patch) (contact.Contact, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": patchSet(p, r.now().UTC())}
	var doc contactDoc
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id.String()}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return contact.Contact{}, contact.ErrNotFound
		}
		return contact.Contact{}, err
	}
	return doc.toContact()
}

func (r *ContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return contact.ErrNotFound
	}
	return nil
}
