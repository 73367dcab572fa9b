package user

import (
	"context"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uint64) (*User, error)
	FindByPublicID(ctx context.Context, publicID string) (*User, error)
	FindByPublicIDs(ctx context.Context, publicIDs []string) ([]User, error)
	PublicIDExists(ctx context.Context, publicID string) (bool, error)
	UpdateProfile(ctx context.Context, id uint64, name *string, photoURL *string) (*User, error)
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new user repository
func NewRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint64) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByPublicID(ctx context.Context, publicID string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).Where("user_id = ?", publicID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByPublicIDs(ctx context.Context, publicIDs []string) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).Where("user_id IN ?", publicIDs).Find(&users).Error
	return users, err
}

func (r *UserRepositoryImpl) PublicIDExists(ctx context.Context, publicID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&User{}).Where("user_id = ?", publicID).Count(&count).Error
	return count > 0, err
}

// UpdateProfile applies the non-nil fields and returns the updated row
func (r *UserRepositoryImpl) UpdateProfile(ctx context.Context, id uint64, name *string, photoURL *string) (*User, error) {
	updates := map[string]interface{}{}
	if name != nil {
		updates["name"] = *name
	}
	if photoURL != nil {
		updates["profile_photo_url"] = *photoURL
	}

	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return r.FindByID(ctx, id)
}
