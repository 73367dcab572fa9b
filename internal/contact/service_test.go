package contact

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apiError "observation-tracker/internal/errors"
	"observation-tracker/internal/user"
)

type fakeContactRepo struct {
	nextID   uint64
	contacts []*Contact
}

func (r *fakeContactRepo) Create(_ context.Context, contact *Contact) error {
	for _, c := range r.contacts {
		if c.UserID == contact.UserID && c.ContactUserID == contact.ContactUserID {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	contact.ID = r.nextID
	r.contacts = append(r.contacts, contact)
	return nil
}

func (r *fakeContactRepo) ListByOwner(_ context.Context, ownerID uint64) ([]Contact, error) {
	var owned []Contact
	for _, c := range r.contacts {
		if c.UserID == ownerID {
			owned = append(owned, *c)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].Name < owned[j].Name })
	return owned, nil
}

func (r *fakeContactRepo) FindByID(_ context.Context, id uint64) (*Contact, error) {
	for _, c := range r.contacts {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeContactRepo) Delete(_ context.Context, id uint64) error {
	for i, c := range r.contacts {
		if c.ID == id {
			r.contacts = append(r.contacts[:i], r.contacts[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeContactRepo) ExistsForOwner(_ context.Context, ownerID uint64, contactUserID string) (bool, error) {
	for _, c := range r.contacts {
		if c.UserID == ownerID && c.ContactUserID == contactUserID {
			return true, nil
		}
	}
	return false, nil
}

type fakeLookup struct {
	known map[string]*user.User
}

func (l *fakeLookup) FindByPublicID(_ context.Context, publicID string) (*user.User, error) {
	if u, ok := l.known[publicID]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newContactService() (Service, *fakeContactRepo) {
	repo := &fakeContactRepo{}
	lookup := &fakeLookup{known: map[string]*user.User{
		"AAAAAA": {ID: 2, UserID: "AAAAAA", Name: "Bob"},
		"CC0000": {ID: 3, UserID: "CC0000", Name: "Carol"},
	}}
	return NewService(repo, lookup), repo
}

func TestAdd(t *testing.T) {
	t.Run("saves normalized entry", func(t *testing.T) {
		service, repo := newContactService()

		contact, err := service.Add(context.Background(), 1, "Bob from work", "aaaaaa")
		require.NoError(t, err)
		assert.Equal(t, "AAAAAA", contact.ContactUserID)
		assert.Len(t, repo.contacts, 1)
	})

	t.Run("unknown target", func(t *testing.T) {
		service, repo := newContactService()

		_, err := service.Add(context.Background(), 1, "Ghost", "ZZZZZZ")

		var apiErr *apiError.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "validation", apiErr.Kind)
		assert.Empty(t, repo.contacts)
	})

	t.Run("duplicate target is a conflict", func(t *testing.T) {
		service, _ := newContactService()

		_, err := service.Add(context.Background(), 1, "Bob", "AAAAAA")
		require.NoError(t, err)

		_, err = service.Add(context.Background(), 1, "Bob again", "AAAAAA")
		var apiErr *apiError.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "conflict", apiErr.Kind)
	})

	t.Run("different owners may save the same target", func(t *testing.T) {
		service, repo := newContactService()

		_, err := service.Add(context.Background(), 1, "Bob", "AAAAAA")
		require.NoError(t, err)
		_, err = service.Add(context.Background(), 9, "Bob", "AAAAAA")
		require.NoError(t, err)
		assert.Len(t, repo.contacts, 2)
	})
}

func TestList_SortedByName(t *testing.T) {
	service, _ := newContactService()

	_, err := service.Add(context.Background(), 1, "Carol", "CC0000")
	require.NoError(t, err)
	_, err = service.Add(context.Background(), 1, "Bob", "AAAAAA")
	require.NoError(t, err)

	contacts, err := service.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "Bob", contacts[0].Name)
	assert.Equal(t, "Carol", contacts[1].Name)
}

func TestRemove(t *testing.T) {
	t.Run("owner removes own entry", func(t *testing.T) {
		service, repo := newContactService()
		contact, err := service.Add(context.Background(), 1, "Bob", "AAAAAA")
		require.NoError(t, err)

		require.NoError(t, service.Remove(context.Background(), 1, contact.ID))
		assert.Empty(t, repo.contacts)
	})

	t.Run("someone else's entry is not found", func(t *testing.T) {
		service, repo := newContactService()
		contact, err := service.Add(context.Background(), 1, "Bob", "AAAAAA")
		require.NoError(t, err)

		err = service.Remove(context.Background(), 9, contact.ID)

		var apiErr *apiError.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "not_found", apiErr.Kind)
		assert.Len(t, repo.contacts, 1)
	})

	t.Run("absent entry is not found", func(t *testing.T) {
		service, _ := newContactService()

		err := service.Remove(context.Background(), 1, 42)

		var apiErr *apiError.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "not_found", apiErr.Kind)
	})
}
