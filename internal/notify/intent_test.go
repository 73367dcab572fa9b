package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"observation-tracker/internal/worker"
)

func TestObservationCreated_Content(t *testing.T) {
	photo := "https://photos.example.com/observations/abc"
	intent := ObservationCreated(
		"sender@example.com", "Jane Doe", "123456",
		"North ridge", "Loose rock near the trail",
		[]string{"AAAAAA", "ZZ9900"}, &photo,
	)

	assert.Equal(t, "sender@example.com", intent.To)
	assert.Equal(t, "Observation Created - ID: 123456", intent.Subject)
	assert.Contains(t, intent.HTML, "Jane Doe")
	assert.Contains(t, intent.HTML, "AAAAAA, ZZ9900")
	assert.Contains(t, intent.HTML, "Loose rock near the trail")
	assert.Equal(t, []string{photo}, intent.Attachments)
}

func TestObservationReceived_NoPhoto(t *testing.T) {
	intent := ObservationReceived(
		"rcpt@example.com", "Jane Doe", "AB12CD", "sender@example.com",
		"654321", "South face", "Ice on the approach", nil,
	)

	assert.Equal(t, "New Observation - ID: 654321", intent.Subject)
	assert.Contains(t, intent.HTML, "AB12CD")
	assert.Empty(t, intent.Attachments)
	assert.NotContains(t, intent.HTML, "photo attached")
}

func TestInvalidRecipients_NamesEveryID(t *testing.T) {
	intent := InvalidRecipients("sender@example.com", []string{"BBBBBB", "CC0000"})

	assert.Equal(t, "Invalid User IDs", intent.Subject)
	assert.Contains(t, intent.HTML, "<li>BBBBBB</li>")
	assert.Contains(t, intent.HTML, "<li>CC0000</li>")
}

func TestRevisionApplied_CombinesBothViews(t *testing.T) {
	orig := "https://photos.example.com/observations/orig"
	revised := "https://photos.example.com/observations/revisions/new"

	intent := RevisionApplied("sender@example.com", RevisionContent{
		SenderName:       "Jane Doe",
		SenderUserID:     "AB12CD",
		SenderEmail:      "sender@example.com",
		ReviserName:      "John Roe",
		ReviserUserID:    "XY34ZW",
		ReviserEmail:     "reviser@example.com",
		ObservationID:    "123456",
		OriginalLocation: "North ridge",
		OriginalBody:     "Loose rock",
		OriginalPhotoURL: &orig,
		RevisedLocation:  "North ridge, upper section",
		RevisedBody:      "Rock cleared",
		RevisedPhotoURL:  &revised,
	})

	assert.Equal(t, "Observation Revised - ID: 123456", intent.Subject)
	assert.Contains(t, intent.HTML, "North ridge, upper section")
	assert.Contains(t, intent.HTML, "Loose rock")
	assert.Equal(t, []string{orig, revised}, intent.Attachments)
}

func TestInvalidRevision_NamesBothKeys(t *testing.T) {
	intent := InvalidRevision("reviser@example.com", "123456", "AB12CD")

	assert.Equal(t, "Invalid Revision Attempt", intent.Subject)
	assert.Contains(t, intent.HTML, "123456")
	assert.Contains(t, intent.HTML, "AB12CD")
}

// recordingDispatcher collects dispatched intents
type recordingDispatcher struct {
	mu      sync.Mutex
	intents []Intent
	done    chan struct{}
}

func (r *recordingDispatcher) Dispatch(_ context.Context, intent Intent) error {
	r.mu.Lock()
	r.intents = append(r.intents, intent)
	r.mu.Unlock()
	r.done <- struct{}{}
	return nil
}

func TestQueue_DispatchesThroughPool(t *testing.T) {
	pool := worker.NewWorkerPool(1)
	defer pool.Shutdown()

	rec := &recordingDispatcher{done: make(chan struct{}, 1)}
	queue := NewQueue(pool, rec)

	queue.Enqueue(Intent{To: "a@example.com", Subject: "s"})

	select {
	case <-rec.done:
	case <-time.After(2 * time.Second):
		t.Fatal("intent was not dispatched")
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Len(t, rec.intents, 1)
	assert.Equal(t, "a@example.com", rec.intents[0].To)
}
