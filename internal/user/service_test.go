package user

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apiError "observation-tracker/internal/errors"
)

// fakeUserRepo is an in-memory UserRepository
type fakeUserRepo struct {
	nextID     uint64
	users      []*User
	createErrs []error
}

func (r *fakeUserRepo) Create(_ context.Context, usr *User) error {
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return err
		}
	}
	for _, existing := range r.users {
		if existing.UserID == usr.UserID || existing.Email == usr.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	usr.ID = r.nextID
	r.users = append(r.users, usr)
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint64) (*User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByPublicID(_ context.Context, publicID string) (*User, error) {
	for _, u := range r.users {
		if u.UserID == publicID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByPublicIDs(_ context.Context, publicIDs []string) ([]User, error) {
	var found []User
	for _, u := range r.users {
		for _, id := range publicIDs {
			if u.UserID == id {
				found = append(found, *u)
			}
		}
	}
	return found, nil
}

func (r *fakeUserRepo) PublicIDExists(_ context.Context, publicID string) (bool, error) {
	_, err := r.FindByPublicID(context.Background(), publicID)
	return err == nil, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id uint64, name *string, photoURL *string) (*User, error) {
	u, err := r.FindByID(context.Background(), id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		u.Name = *name
	}
	if photoURL != nil {
		u.ProfilePhotoURL = photoURL
	}
	return u, nil
}

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func TestRegister_MintsPublicID(t *testing.T) {
	repo := &fakeUserRepo{}
	service := NewService(repo, nil)

	usr := &User{Name: "Alice", Email: "alice@example.com", Password: "secret123"}
	require.NoError(t, service.Register(context.Background(), usr))

	assert.Len(t, usr.UserID, 6)
	assert.Equal(t, "", strings.Trim(usr.UserID, idAlphabet))

	// password stored only as a bcrypt hash
	assert.NotEmpty(t, usr.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte("secret123")))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &fakeUserRepo{}
	service := NewService(repo, nil)

	first := &User{Name: "Alice", Email: "alice@example.com", Password: "secret123"}
	require.NoError(t, service.Register(context.Background(), first))

	second := &User{Name: "Imposter", Email: "alice@example.com", Password: "secret123"}
	err := service.Register(context.Background(), second)

	var apiErr *apiError.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "conflict", apiErr.Kind)
	assert.Len(t, repo.users, 1)
}

func TestRegister_RetriesOnInsertRace(t *testing.T) {
	repo := &fakeUserRepo{createErrs: []error{gorm.ErrDuplicatedKey, gorm.ErrDuplicatedKey}}
	service := NewService(repo, nil)

	usr := &User{Name: "Alice", Email: "alice@example.com", Password: "secret123"}
	require.NoError(t, service.Register(context.Background(), usr))
	assert.Len(t, repo.users, 1)
}

func TestLogin(t *testing.T) {
	repo := &fakeUserRepo{}
	service := NewService(repo, nil)

	usr := &User{Name: "Alice", Email: "alice@example.com", Password: "secret123"}
	require.NoError(t, service.Register(context.Background(), usr))

	t.Run("correct password", func(t *testing.T) {
		got, err := service.Login(context.Background(), "alice@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, usr.ID, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := service.Login(context.Background(), "alice@example.com", "nope")
		var apiErr *apiError.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "unauthorized", apiErr.Kind)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := service.Login(context.Background(), "ghost@example.com", "secret123")
		var apiErr *apiError.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "unauthorized", apiErr.Kind)
	})
}

func TestUpdateProfile_NameOnly(t *testing.T) {
	repo := &fakeUserRepo{}
	service := NewService(repo, nil)

	usr := &User{Name: "Alice", Email: "alice@example.com", Password: "secret123"}
	require.NoError(t, service.Register(context.Background(), usr))

	name := "Alice B."
	updated, err := service.UpdateProfile(context.Background(), usr.ID, &name, nil)
	require.NoError(t, err)
	assert.Equal(t, "Alice B.", updated.Name)
	assert.Nil(t, updated.ProfilePhotoURL)
}
