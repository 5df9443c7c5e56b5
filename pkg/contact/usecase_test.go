package contact_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/contacts/pkg/apperr"
	"github.com/artem13815/contacts/pkg/auth"
	"github.com/artem13815/contacts/pkg/contact"
	"github.com/artem13815/contacts/pkg/repository/memory"
)

func newIdentity() auth.Identity {
	return auth.Identity{UserID: uuid.New(), Email: uuid.NewString() + "@example.com"}
}

func bob() contact.CreateInput {
	return contact.CreateInput{Name: "Bob", Email: "bob@x.com", Phone: "123"}
}

func TestCreate_OwnedByCaller(t *testing.T) {
	ctx := context.Background()
	svc := contact.NewService(memory.NewContactRepository())
	alice := newIdentity()

	c, err := svc.Create(ctx, alice, bob())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.Equal(t, alice.UserID, c.UserID)
	assert.False(t, c.CreatedAt.IsZero())

	got, err := svc.Get(ctx, alice, c.ID.String())
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestCreate_MissingFieldStoresNothing(t *testing.T) {
	ctx := context.Background()
	svc := contact.NewService(memory.NewContactRepository())
	alice := newIdentity()

	for _, in := range []contact.CreateInput{
		{Email: "bob@x.com", Phone: "123"},
		{Name: "Bob", Phone: "123"},
		{Name: "Bob", Email: "bob@x.com"},
		{},
	} {
		_, err := svc.Create(ctx, alice, in)
		assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err), "%+v", in)
	}

	cs, err := svc.List(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, cs)
}

func TestList_OnlyCallersContacts(t *testing.T) {
	ctx := context.Background()
	svc := contact.NewService(memory.NewContactRepository())
	alice, mallory := newIdentity(), newIdentity()

	var want []uuid.UUID
	for i := 0; i < 3; i++ {
		c, err := svc.Create(ctx, alice, bob())
		require.NoError(t, err)
		want = append(want, c.ID)
		_, err = svc.Create(ctx, mallory, bob())
		require.NoError(t, err)
	}
	deleted, err := svc.Create(ctx, alice, bob())
	require.NoError(t, err)
	_, err = svc.Delete(ctx, alice, deleted.ID.String())
	require.NoError(t, err)

	cs, err := svc.List(ctx, alice)
	require.NoError(t, err)
	var got []uuid.UUID
	for _, c := range cs {
		assert.Equal(t, alice.UserID, c.UserID)
		got = append(got, c.ID)
	}
	assert.ElementsMatch(t, want, got)

	empty, err := svc.List(ctx, newIdentity())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestForeignCallerIsForbiddenAndChangesNothing(t *testing.T) {
	ctx := context.Background()
	svc := contact.NewService(memory.NewContactRepository())
	alice, mallory := newIdentity(), newIdentity()
	c, err := svc.Create(ctx, alice, bob())
	require.NoError(t, err)
	id := c.ID.String()
	name := "Hacked"

	_, err = svc.Get(ctx, mallory, id)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = svc.Update(ctx, mallory, id, contact.Patch{Name: &name})
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = svc.Delete(ctx, mallory, id)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	got, err := svc.Get(ctx, alice, id)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	svc := contact.NewService(memory.NewContactRepository())
	alice := newIdentity()

	for _, id := range []string{uuid.NewString(), "not-a-uuid", ""} {
		_, err := svc.Get(ctx, alice, id)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err), id)
		_, err = svc.Delete(ctx, alice, id)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err), id)
		_, err = svc.Update(ctx, alice, id, contact.Patch{})
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err), id)
	}
}

func TestUpdate_MergesProvidedFields(t *testing.T) {
	ctx := context.Background()
	svc := contact.NewService(memory.NewContactRepository())
	alice := newIdentity()
	c, err := svc.Create(ctx, alice, bob())
	require.NoError(t, err)

	phone := "999"
	updated, err := svc.Update(ctx, alice, c.ID.String(), contact.Patch{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Bob", updated.Name)
	assert.Equal(t, "bob@x.com", updated.Email)
	assert.Equal(t, "999", updated.Phone)
	assert.Equal(t, alice.UserID, updated.UserID)
	assert.False(t, updated.UpdatedAt.Before(c.UpdatedAt))
}

func TestDelete_ReturnsRecordThenGone(t *testing.T) {
	ctx := context.Background()
	svc := contact.NewService(memory.NewContactRepository())
	alice := newIdentity()
	c, err := svc.Create(ctx, alice, bob())
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, alice, c.ID.String())
	require.NoError(t, err)
	assert.Equal(t, c, deleted)

	_, err = svc.Get(ctx, alice, c.ID.String())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

type mockRepo struct{ mock.Mock }

func (m *mockRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]contact.Contact, error) {
	args := m.Called(ctx, ownerID)
	cs, _ := args.Get(0).([]contact.Contact)
	return cs, args.Error(1)
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (contact.Contact, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(contact.Contact), args.Error(1)
}

func (m *mockRepo) Create(ctx context.Context, c contact.Contact) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockRepo) Update(ctx context.Context, id uuid.UUID, p contact.Patch) (contact.Contact, error) {
	args := m.Called(ctx, id, p)
	return args.Get(0).(contact.Contact), args.Error(1)
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func TestUpdate_StoreYieldsNoRecordIsInternal(t *testing.T) {
	alice := newIdentity()
	c := contact.Contact{ID: uuid.New(), UserID: alice.UserID, Name: "Bob"}
	name := "Robert"
	p := contact.Patch{Name: &name}

	repo := &mockRepo{}
	repo.On("GetByID", mock.Anything, c.ID).Return(c, nil)
	repo.On("Update", mock.Anything, c.ID, p).Return(contact.Contact{}, contact.ErrNotFound)

	_, err := contact.NewService(repo).Update(context.Background(), alice, c.ID.String(), p)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.Equal(t, "Failed to update the contact", apperr.Message(err))
	repo.AssertExpectations(t)
}

func TestStoreFailuresPropagateAsInternal(t *testing.T) {
	alice := newIdentity()
	boom := errors.New("connection reset")

	repo := &mockRepo{}
	repo.On("ListByOwner", mock.Anything, alice.UserID).Return(nil, boom)
	repo.On("GetByID", mock.Anything, mock.Anything).Return(contact.Contact{}, boom)
	repo.On("Create", mock.Anything, mock.Anything).Return(boom)
	svc := contact.NewService(repo)
	ctx := context.Background()

	_, err := svc.List(ctx, alice)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))

	_, err = svc.Get(ctx, alice, uuid.NewString())
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))

	_, err = svc.Create(ctx, alice, bob())
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))

	repo.AssertNumberOfCalls(t, "GetByID", 1)
}
