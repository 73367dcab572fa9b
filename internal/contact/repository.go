package contact

import (
	"context"

	"gorm.io/gorm"
)

type ContactRepository interface {
	Create(ctx context.Context, contact *Contact) error
	ListByOwner(ctx context.Context, ownerID uint64) ([]Contact, error)
	FindByID(ctx context.Context, id uint64) (*Contact, error)
	Delete(ctx context.Context, id uint64) error
	ExistsForOwner(ctx context.Context, ownerID uint64, contactUserID string) (bool, error)
}

type ContactRepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) ContactRepository {
	return &ContactRepositoryImpl{db: db}
}

func (r *ContactRepositoryImpl) Create(ctx context.Context, contact *Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *ContactRepositoryImpl) ListByOwner(ctx context.Context, ownerID uint64) ([]Contact, error) {
	var contacts []Contact
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("name ASC").
		Find(&contacts).Error
	return contacts, err
}

func (r *ContactRepositoryImpl) FindByID(ctx context.Context, id uint64) (*Contact, error) {
	var contact Contact
	err := r.db.WithContext(ctx).First(&contact, id).Error
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *ContactRepositoryImpl) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&Contact{}, id).Error
}

func (r *ContactRepositoryImpl) ExistsForOwner(ctx context.Context, ownerID uint64, contactUserID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Contact{}).
		Where("user_id = ? AND contact_user_id = ?", ownerID, contactUserID).
		Count(&count).Error
	return count > 0, err
}
