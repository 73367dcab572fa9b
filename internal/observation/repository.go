package observation

import (
	"context"
	"time"

	"gorm.io/gorm"

	"observation-tracker/internal/photo"
)

type ObservationRepository interface {
	Create(ctx context.Context, observation *Observation) error
	FindByPublicID(ctx context.Context, publicID string) (*Observation, error)
	PublicIDExists(ctx context.Context, publicID string) (bool, error)
	ListVisibleTo(ctx context.Context, userID uint64, status string, ascending bool) ([]Observation, error)
	AppendRevision(ctx context.Context, observationID uint64, revision *Revision) error

	photo.Archive
}

type ObservationRepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) ObservationRepository {
	return &ObservationRepositoryImpl{db: db}
}

// Create persists the observation together with its recipient links in a
// single transaction; gorm writes the association rows with the parent.
func (r *ObservationRepositoryImpl) Create(ctx context.Context, observation *Observation) error {
	observation.CreatedAt = time.Now().UTC()
	observation.Status = StatusUnrevised
	return r.db.WithContext(ctx).Create(observation).Error
}

func (r *ObservationRepositoryImpl) FindByPublicID(ctx context.Context, publicID string) (*Observation, error) {
	var obs Observation
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Recipients.Recipient").
		Preload("Revisions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Revisions.Reviser").
		Where("observation_id = ?", publicID).
		First(&obs).Error
	if err != nil {
		return nil, err
	}
	return &obs, nil
}

func (r *ObservationRepositoryImpl) PublicIDExists(ctx context.Context, publicID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Observation{}).
		Where("observation_id = ?", publicID).
		Count(&count).Error
	return count > 0, err
}

// ListVisibleTo returns the observations whose sender is userID or that carry
// a recipient link for userID, optionally filtered by status.
func (r *ObservationRepositoryImpl) ListVisibleTo(ctx context.Context, userID uint64, status string, ascending bool) ([]Observation, error) {
	order := "created_at DESC"
	if ascending {
		order = "created_at ASC"
	}

	query := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Revisions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Revisions.Reviser").
		Where(
			"sender_id = ? OR id IN (?)",
			userID,
			r.db.Model(&Recipient{}).Select("observation_id").Where("recipient_id = ?", userID),
		)

	if status != "" {
		query = query.Where("status = ?", status)
	}

	var observations []Observation
	err := query.Order(order).Find(&observations).Error
	return observations, err
}

// AppendRevision inserts the revision and flips the status in one
// transaction. The seq comes from the atomic counter bump on the parent row,
// so it is always the count of prior revisions plus one.
func (r *ObservationRepositoryImpl) AppendRevision(ctx context.Context, observationID uint64, revision *Revision) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq uint64
		if err := tx.Raw(`
			UPDATE observations
			SET status = ?,
			    revision_seq = revision_seq + 1
			WHERE id = ?
			RETURNING revision_seq
		`, StatusRevised, observationID).Scan(&seq).Error; err != nil {
			return err
		}

		revision.ObservationID = observationID
		revision.Seq = seq
		revision.CreatedAt = time.Now().UTC()

		return tx.Create(revision).Error
	})
}

func (r *ObservationRepositoryImpl) ObservationPhotosBefore(ctx context.Context, cutoff time.Time) ([]photo.StoredPhoto, error) {
	return r.photosBefore(ctx, &Observation{}, "photo_url", cutoff)
}

func (r *ObservationRepositoryImpl) ClearObservationPhoto(ctx context.Context, rowID uint64) error {
	return r.db.WithContext(ctx).Model(&Observation{}).
		Where("id = ?", rowID).
		Update("photo_url", nil).Error
}

func (r *ObservationRepositoryImpl) RevisionPhotosBefore(ctx context.Context, cutoff time.Time) ([]photo.StoredPhoto, error) {
	return r.photosBefore(ctx, &Revision{}, "revised_photo_url", cutoff)
}

func (r *ObservationRepositoryImpl) ClearRevisionPhoto(ctx context.Context, rowID uint64) error {
	return r.db.WithContext(ctx).Model(&Revision{}).
		Where("id = ?", rowID).
		Update("revised_photo_url", nil).Error
}

func (r *ObservationRepositoryImpl) photosBefore(ctx context.Context, model any, column string, cutoff time.Time) ([]photo.StoredPhoto, error) {
	var rows []photo.StoredPhoto
	err := r.db.WithContext(ctx).Model(model).
		Select("id AS row_id, "+column+" AS url").
		Where("created_at < ? AND "+column+" IS NOT NULL", cutoff).
		Scan(&rows).Error
	return rows, err
}
