package photo

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// StoredPhoto is a photo column still pointing at a hosted object
type StoredPhoto struct {
	RowID uint64
	URL   string
}

// Archive is the slice of the persistence layer the cleaner needs: find rows
// older than a cutoff that still hold a photo, and clear the column once the
// hosted object is gone.
type Archive interface {
	ObservationPhotosBefore(ctx context.Context, cutoff time.Time) ([]StoredPhoto, error)
	ClearObservationPhoto(ctx context.Context, rowID uint64) error
	RevisionPhotosBefore(ctx context.Context, cutoff time.Time) ([]StoredPhoto, error)
	ClearRevisionPhoto(ctx context.Context, rowID uint64) error
}

// Cleaner purges hosted photos older than the retention window. Rows survive,
// only the photo reference is dropped. A per-photo failure is logged and the
// sweep continues.
type Cleaner struct {
	archive       Archive
	storage       Storage
	retentionDays int
}

func NewCleaner(archive Archive, storage Storage, retentionDays int) *Cleaner {
	return &Cleaner{
		archive:       archive,
		storage:       storage,
		retentionDays: retentionDays,
	}
}

func (c *Cleaner) Purge(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -c.retentionDays)
	deleted := 0

	observationPhotos, err := c.archive.ObservationPhotosBefore(ctx, cutoff)
	if err != nil {
		return deleted, err
	}
	for _, p := range observationPhotos {
		if err := c.purgeOne(ctx, p, c.archive.ClearObservationPhoto); err != nil {
			log.Error().Err(err).Str("url", p.URL).Msg("Failed to delete observation photo")
			continue
		}
		deleted++
	}

	revisionPhotos, err := c.archive.RevisionPhotosBefore(ctx, cutoff)
	if err != nil {
		return deleted, err
	}
	for _, p := range revisionPhotos {
		if err := c.purgeOne(ctx, p, c.archive.ClearRevisionPhoto); err != nil {
			log.Error().Err(err).Str("url", p.URL).Msg("Failed to delete revision photo")
			continue
		}
		deleted++
	}

	return deleted, nil
}

func (c *Cleaner) purgeOne(ctx context.Context, p StoredPhoto, clear func(context.Context, uint64) error) error {
	if err := c.storage.Delete(ctx, p.URL); err != nil {
		return err
	}
	return clear(ctx, p.RowID)
}

// CleanupHandler serves the internal cron route
func CleanupHandler(cleaner *Cleaner) gin.HandlerFunc {
	return func(c *gin.Context) {
		deleted, err := cleaner.Purge(c.Request.Context())
		if err != nil {
			c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"deleted_count": deleted})
	}
}
