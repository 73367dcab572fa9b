package contact

import (
	"context"
	defError "errors"

	"gorm.io/gorm"

	"observation-tracker/internal/errors"
	"observation-tracker/internal/user"
	"observation-tracker/internal/utils"
)

type Service interface {
	List(ctx context.Context, ownerID uint64) ([]Contact, error)
	Add(ctx context.Context, ownerID uint64, name, contactUserID string) (*Contact, error)
	Remove(ctx context.Context, ownerID uint64, contactID uint64) error
}

// UserLookup resolves a public user ID to a user record
type UserLookup interface {
	FindByPublicID(ctx context.Context, publicID string) (*user.User, error)
}

type DefaultService struct {
	repository ContactRepository
	users      UserLookup
}

func NewService(repository ContactRepository, users UserLookup) Service {
	return &DefaultService{repository: repository, users: users}
}

func (s *DefaultService) List(ctx context.Context, ownerID uint64) ([]Contact, error) {
	return s.repository.ListByOwner(ctx, ownerID)
}

// Add saves a notebook entry after checking the target public ID exists.
// A second entry for the same target is a conflict.
func (s *DefaultService) Add(ctx context.Context, ownerID uint64, name, contactUserID string) (*Contact, error) {
	contactUserID = utils.NormalizeID(contactUserID)

	if _, err := s.users.FindByPublicID(ctx, contactUserID); err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Validation("User ID does not exist", err)
		}
		return nil, err
	}

	exists, err := s.repository.ExistsForOwner(ctx, ownerID, contactUserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Conflict("Contact already exists", nil)
	}

	contact := &Contact{
		UserID:        ownerID,
		Name:          name,
		ContactUserID: contactUserID,
	}
	if err := s.repository.Create(ctx, contact); err != nil {
		if defError.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.Conflict("Contact already exists", err)
		}
		return nil, err
	}

	return contact, nil
}

// Remove deletes an entry the owner actually owns; anything else is not found
func (s *DefaultService) Remove(ctx context.Context, ownerID uint64, contactID uint64) error {
	contact, err := s.repository.FindByID(ctx, contactID)
	if err != nil || contact.UserID != ownerID {
		return errors.NotFound("Contact not found", err)
	}

	return s.repository.Delete(ctx, contactID)
}
