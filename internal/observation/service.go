package observation

import (
	"context"
	defError "errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"observation-tracker/internal/cache"
	"observation-tracker/internal/errors"
	"observation-tracker/internal/ident"
	"observation-tracker/internal/notify"
	"observation-tracker/internal/photo"
	"observation-tracker/internal/user"
	"observation-tracker/internal/utils"
)

type Service interface {
	Create(ctx context.Context, sender *user.User, input CreateInput) (*Observation, error)
	Revise(ctx context.Context, reviser *user.User, input ReviseInput) error
	GetByPublicID(ctx context.Context, requester *user.User, publicID string) (*ObservationResponse, error)
	List(ctx context.Context, requester *user.User, filter ListFilter) ([]ObservationResponse, error)
}

// UserDirectory resolves public user IDs to user records
type UserDirectory interface {
	FindByPublicIDs(ctx context.Context, publicIDs []string) ([]user.User, error)
}

type CreateInput struct {
	Location     string
	Body         string
	RecipientIDs []string
	Photo        *photo.Blob
}

type ReviseInput struct {
	ObservationID string
	SenderUserID  string
	Location      string
	Body          string
	Photo         *photo.Blob
}

type ListFilter struct {
	Status string // "", "unrevised" or "revised"
	Sort   string // "", "asc" or "desc"; default newest first
}

type DefaultService struct {
	repository     ObservationRepository
	users          UserDirectory
	notifier       notify.Notifier
	storage        photo.Storage
	cache          *cache.Cache
	generator      ident.Generator
	autoRecipients []string
}

func NewService(
	repository ObservationRepository,
	users UserDirectory,
	notifier notify.Notifier,
	storage photo.Storage,
	listCache *cache.Cache,
	autoRecipients []string,
) Service {
	return &DefaultService{
		repository:     repository,
		users:          users,
		notifier:       notifier,
		storage:        storage,
		cache:          listCache,
		generator:      ident.ForObservationIDs(),
		autoRecipients: utils.NormalizeIDs(autoRecipients),
	}
}

type publicIDNamespace struct {
	repository ObservationRepository
}

func (n publicIDNamespace) Exists(ctx context.Context, id string) (bool, error) {
	return n.repository.PublicIDExists(ctx, id)
}

// Create runs the unrevised-state transition: resolve recipients, upload the
// photo, then write observation + recipient links atomically under a freshly
// minted ID. Notifications go out only after the commit.
func (s *DefaultService) Create(ctx context.Context, sender *user.User, input CreateInput) (*Observation, error) {
	recipientIDs := s.mergeRecipientIDs(input.RecipientIDs)

	recipients, err := s.users.FindByPublicIDs(ctx, recipientIDs)
	if err != nil {
		return nil, err
	}

	if invalid := missingIDs(recipientIDs, recipients); len(invalid) > 0 {
		// best-effort notification before reporting the failure
		s.notifier.Enqueue(notify.InvalidRecipients(sender.Email, invalid))
		return nil, errors.Validation(
			fmt.Sprintf("Some user IDs are invalid: %s", strings.Join(invalid, ", ")),
			nil,
		)
	}

	var photoURL *string
	if input.Photo != nil {
		url, err := s.storage.Upload(ctx, "observations", input.Photo.ContentType, input.Photo.Reader)
		if err != nil {
			return nil, errors.Upstream("Photo upload failed", err)
		}
		photoURL = &url
	}

	links := make([]Recipient, 0, len(recipients))
	for _, r := range recipients {
		links = append(links, Recipient{RecipientID: r.ID})
	}

	obs := &Observation{
		SenderID:   sender.ID,
		Location:   input.Location,
		Body:       input.Body,
		PhotoURL:   photoURL,
		Recipients: links,
	}

	// A candidate losing the insert race trips the unique index on
	// observation_id; regenerate and try again rather than failing the caller.
	ns := publicIDNamespace{repository: s.repository}
	created := false
	for attempt := 0; attempt < 3 && !created; attempt++ {
		publicID, err := s.generator.Generate(ctx, ns)
		if err != nil {
			return nil, err
		}
		obs.ObservationID = publicID

		err = s.repository.Create(ctx, obs)
		if err == nil {
			created = true
		} else if !defError.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
	}
	if !created {
		return nil, errors.Conflict("Could not allocate a unique observation ID", nil)
	}

	s.bumpListVersions(ctx, sender.ID, recipients)

	s.notifier.Enqueue(notify.ObservationCreated(
		sender.Email, sender.Name, obs.ObservationID,
		obs.Location, obs.Body, publicIDsOf(recipients), obs.PhotoURL,
	))
	for _, recipient := range recipients {
		s.notifier.Enqueue(notify.ObservationReceived(
			recipient.Email, sender.Name, sender.UserID, sender.Email,
			obs.ObservationID, obs.Location, obs.Body, obs.PhotoURL,
		))
	}

	return obs, nil
}

// Revise appends a revision under the double-key check: the observation must
// exist AND its sender's public ID must match the claimed one exactly. Either
// failure mutates nothing and mails the submitter an invalid-revision notice.
func (s *DefaultService) Revise(ctx context.Context, reviser *user.User, input ReviseInput) error {
	observationID := utils.NormalizeID(input.ObservationID)
	claimedSenderID := utils.NormalizeID(input.SenderUserID)

	obs, err := s.repository.FindByPublicID(ctx, observationID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			s.notifier.Enqueue(notify.InvalidRevision(reviser.Email, observationID, claimedSenderID))
			return errors.Validation("Invalid observation ID or sender ID", nil)
		}
		return err
	}

	if obs.Sender.UserID != claimedSenderID {
		s.notifier.Enqueue(notify.InvalidRevision(reviser.Email, observationID, claimedSenderID))
		return errors.Validation("Sender ID does not match observation", nil)
	}

	var photoURL *string
	if input.Photo != nil {
		url, err := s.storage.Upload(ctx, "observations/revisions", input.Photo.ContentType, input.Photo.Reader)
		if err != nil {
			return errors.Upstream("Photo upload failed", err)
		}
		photoURL = &url
	}

	revision := &Revision{
		ReviserID:       reviser.ID,
		RevisedLocation: input.Location,
		RevisedBody:     input.Body,
		RevisedPhotoURL: photoURL,
	}
	if err := s.repository.AppendRevision(ctx, obs.ID, revision); err != nil {
		return err
	}

	s.bumpListVersions(ctx, obs.SenderID, recipientUsers(obs.Recipients))

	content := notify.RevisionContent{
		SenderName:       obs.Sender.Name,
		SenderUserID:     obs.Sender.UserID,
		SenderEmail:      obs.Sender.Email,
		ReviserName:      reviser.Name,
		ReviserUserID:    reviser.UserID,
		ReviserEmail:     reviser.Email,
		ObservationID:    obs.ObservationID,
		OriginalLocation: obs.Location,
		OriginalBody:     obs.Body,
		OriginalPhotoURL: obs.PhotoURL,
		RevisedLocation:  revision.RevisedLocation,
		RevisedBody:      revision.RevisedBody,
		RevisedPhotoURL:  revision.RevisedPhotoURL,
	}
	s.notifier.Enqueue(notify.RevisionApplied(obs.Sender.Email, content))
	s.notifier.Enqueue(notify.RevisionApplied(reviser.Email, content))

	return nil
}

// GetByPublicID gates the detail view on the sender-or-recipient check
func (s *DefaultService) GetByPublicID(ctx context.Context, requester *user.User, publicID string) (*ObservationResponse, error) {
	obs, err := s.repository.FindByPublicID(ctx, utils.NormalizeID(publicID))
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Observation not found", err)
		}
		return nil, err
	}

	if !obs.CanRead(requester) {
		return nil, errors.Forbidden("You don't have access to this observation", nil)
	}

	resp := toResponse(obs, true)
	return &resp, nil
}

func (s *DefaultService) List(ctx context.Context, requester *user.User, filter ListFilter) ([]ObservationResponse, error) {
	switch filter.Status {
	case "", StatusUnrevised, StatusRevised:
	default:
		return nil, errors.Validation("Unknown status filter", nil)
	}

	ascending := false
	switch filter.Sort {
	case "", "desc":
	case "asc":
		ascending = true
	default:
		return nil, errors.Validation("Unknown sort order", nil)
	}

	versionKey := listVersionKey(requester.ID)
	v := s.cache.GetVersion(ctx, versionKey)
	cacheKey := fmt.Sprintf("obs:u:%d:v:%d:f:%s:s:%s", requester.ID, v, filter.Status, filter.Sort)

	var result []ObservationResponse
	found, _ := s.cache.Get(ctx, cacheKey, &result)
	if found {
		return result, nil
	}

	observations, err := s.repository.ListVisibleTo(ctx, requester.ID, filter.Status, ascending)
	if err != nil {
		return nil, err
	}

	result = make([]ObservationResponse, 0, len(observations))
	for i := range observations {
		result = append(result, toResponse(&observations[i], false))
	}

	go s.cache.Set(context.Background(), cacheKey, result, 24*time.Hour)

	return result, nil
}

// mergeRecipientIDs combines the sender-supplied IDs with the configured
// auto-recipients, uppercased and deduplicated, preserving order
func (s *DefaultService) mergeRecipientIDs(supplied []string) []string {
	seen := make(map[string]bool)
	merged := make([]string, 0, len(supplied)+len(s.autoRecipients))
	for _, id := range append(utils.NormalizeIDs(supplied), s.autoRecipients...) {
		if !seen[id] {
			seen[id] = true
			merged = append(merged, id)
		}
	}
	return merged
}

func (s *DefaultService) bumpListVersions(ctx context.Context, senderID uint64, recipients []user.User) {
	s.cache.IncrementVersion(ctx, listVersionKey(senderID))
	for _, r := range recipients {
		s.cache.IncrementVersion(ctx, listVersionKey(r.ID))
	}
}

func listVersionKey(userID uint64) string {
	return fmt.Sprintf("user:%d:obs:version", userID)
}

func missingIDs(wanted []string, found []user.User) []string {
	foundSet := make(map[string]bool, len(found))
	for _, u := range found {
		foundSet[u.UserID] = true
	}

	var missing []string
	for _, id := range wanted {
		if !foundSet[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

func publicIDsOf(users []user.User) []string {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.UserID)
	}
	return ids
}

func recipientUsers(links []Recipient) []user.User {
	users := make([]user.User, 0, len(links))
	for _, l := range links {
		users = append(users, user.User{ID: l.RecipientID})
	}
	return users
}

type RevisionResponse struct {
	Seq             uint64    `json:"seq"`
	ReviserName     string    `json:"reviser_name"`
	ReviserUserID   string    `json:"reviser_user_id"`
	RevisedLocation string    `json:"revised_location"`
	RevisedBody     string    `json:"revised_observation"`
	RevisedPhotoURL *string   `json:"revised_photo_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type ObservationResponse struct {
	ObservationID string             `json:"observation_id"`
	SenderName    string             `json:"sender_name"`
	SenderUserID  string             `json:"sender_user_id"`
	Location      string             `json:"location"`
	Body          string             `json:"observation"`
	PhotoURL      *string            `json:"photo_url,omitempty"`
	Status        string             `json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
	RecipientIDs  []string           `json:"recipient_ids,omitempty"`
	Revisions     []RevisionResponse `json:"revisions"`
}

func toResponse(obs *Observation, includeRecipients bool) ObservationResponse {
	revisions := make([]RevisionResponse, 0, len(obs.Revisions))
	for _, rev := range obs.Revisions {
		revisions = append(revisions, RevisionResponse{
			Seq:             rev.Seq,
			ReviserName:     rev.Reviser.Name,
			ReviserUserID:   rev.Reviser.UserID,
			RevisedLocation: rev.RevisedLocation,
			RevisedBody:     rev.RevisedBody,
			RevisedPhotoURL: rev.RevisedPhotoURL,
			CreatedAt:       rev.CreatedAt,
		})
	}

	resp := ObservationResponse{
		ObservationID: obs.ObservationID,
		SenderName:    obs.Sender.Name,
		SenderUserID:  obs.Sender.UserID,
		Location:      obs.Location,
		Body:          obs.Body,
		PhotoURL:      obs.PhotoURL,
		Status:        obs.Status,
		CreatedAt:     obs.CreatedAt,
		Revisions:     revisions,
	}

	if includeRecipients {
		ids := make([]string, 0, len(obs.Recipients))
		for _, r := range obs.Recipients {
			ids = append(ids, r.Recipient.UserID)
		}
		resp.RecipientIDs = ids
	}

	return resp
}
