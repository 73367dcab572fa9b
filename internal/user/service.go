package user

import (
	"context"
	defError "errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"observation-tracker/internal/errors"
	"observation-tracker/internal/ident"
	"observation-tracker/internal/photo"
)

// Service defines the interface for user business logic
type Service interface {
	Register(ctx context.Context, user *User) error
	Login(ctx context.Context, email, password string) (*User, error)
	GetUserByID(ctx context.Context, id uint64) (*User, error)
	UpdateProfile(ctx context.Context, id uint64, name *string, photoUpload *photo.Blob) (*User, error)
}

// DefaultService implements Service
type DefaultService struct {
	repository UserRepository
	generator  ident.Generator
	storage    photo.Storage
}

// NewService creates a new user service
func NewService(repository UserRepository, storage photo.Storage) Service {
	return &DefaultService{
		repository: repository,
		generator:  ident.ForUserIDs(),
		storage:    storage,
	}
}

// publicIDNamespace exposes the user public-ID column as an ident.Namespace
type publicIDNamespace struct {
	repository UserRepository
}

func (n publicIDNamespace) Exists(ctx context.Context, id string) (bool, error) {
	return n.repository.PublicIDExists(ctx, id)
}

// Register creates a user with a freshly minted public ID
func (s *DefaultService) Register(ctx context.Context, user *User) error {
	// Check if user with email already exists
	_, err := s.repository.FindByEmail(ctx, user.Email)
	if err != nil && !defError.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err == nil {
		return errors.Conflict("User already registered", nil)
	}

	// Hash the password before saving
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Internal(err)
	}
	user.PasswordHash = string(hashedPassword)

	// Mint the public ID. A candidate that loses an insert race trips the
	// unique index; that counts as one more collision, so regenerate.
	ns := publicIDNamespace{repository: s.repository}
	for attempt := 0; attempt < 3; attempt++ {
		publicID, err := s.generator.Generate(ctx, ns)
		if err != nil {
			return err
		}
		user.UserID = publicID

		err = s.repository.Create(ctx, user)
		if err == nil {
			return nil
		}
		if !defError.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}

	return errors.Conflict("Could not allocate a unique user ID", nil)
}

// Login authenticates a user
func (s *DefaultService) Login(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repository.FindByEmail(ctx, email)
	if err != nil {
		return nil, errors.Unauthorized("Wrong email or password", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return nil, errors.Unauthorized("Wrong email or password", err)
	}

	return user, nil
}

// GetUserByID gets a user by ID
func (s *DefaultService) GetUserByID(ctx context.Context, id uint64) (*User, error) {
	return s.repository.FindByID(ctx, id)
}

// UpdateProfile changes the display name and/or uploads a new profile photo.
// An upload failure aborts before anything is written.
func (s *DefaultService) UpdateProfile(ctx context.Context, id uint64, name *string, photoUpload *photo.Blob) (*User, error) {
	var photoURL *string
	if photoUpload != nil {
		url, err := s.storage.Upload(ctx, "profiles", photoUpload.ContentType, photoUpload.Reader)
		if err != nil {
			return nil, errors.Upstream("Profile photo upload failed", err)
		}
		photoURL = &url
	}

	updated, err := s.repository.UpdateProfile(ctx, id, name, photoURL)
	if err != nil {
		return nil, err
	}

	return updated, nil
}
