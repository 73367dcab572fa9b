// Package notify builds and dispatches the mails sent around the observation
// lifecycle. Services emit intents; dispatch happens off the request path.
package notify

import (
	"fmt"
	"strings"
)

// Intent is one notification waiting to be dispatched. Attachments are the
// hosted photo URLs to include with the mail.
type Intent struct {
	To          string
	Subject     string
	HTML        string
	Attachments []string
}

// Notifier is what the lifecycle services depend on. Enqueue never blocks on
// delivery and never reports delivery failures back to the caller.
type Notifier interface {
	Enqueue(intent Intent)
}

func ObservationCreated(to, senderName, observationID, location, body string, recipientIDs []string, photoURL *string) Intent {
	html := fmt.Sprintf(`
      <h2>Observation Created Successfully</h2>
      <p>Dear %s,</p>
      <p>Your observation has been created with the following details:</p>
      <ul>
        <li><strong>Observation ID:</strong> %s</li>
        <li><strong>Location:</strong> %s</li>
        <li><strong>Observation:</strong> %s</li>
        <li><strong>Recipients:</strong> %s</li>
      </ul>
      %s`,
		senderName, observationID, location, body,
		strings.Join(recipientIDs, ", "), photoNote(photoURL))

	return Intent{
		To:          to,
		Subject:     fmt.Sprintf("Observation Created - ID: %s", observationID),
		HTML:        html,
		Attachments: attachments(photoURL),
	}
}

func ObservationReceived(to, senderName, senderUserID, senderEmail, observationID, location, body string, photoURL *string) Intent {
	html := fmt.Sprintf(`
      <h2>New Observation Received</h2>
      <p>An observation has been created by:</p>
      <ul>
        <li><strong>Sender Name:</strong> %s</li>
        <li><strong>Sender User ID:</strong> %s</li>
        <li><strong>Sender Email:</strong> %s</li>
      </ul>
      <h3>Observation Details:</h3>
      <ul>
        <li><strong>Observation ID:</strong> %s</li>
        <li><strong>Location:</strong> %s</li>
        <li><strong>Observation:</strong> %s</li>
      </ul>
      %s`,
		senderName, senderUserID, senderEmail,
		observationID, location, body, photoNote(photoURL))

	return Intent{
		To:          to,
		Subject:     fmt.Sprintf("New Observation - ID: %s", observationID),
		HTML:        html,
		Attachments: attachments(photoURL),
	}
}

func InvalidRecipients(to string, invalidIDs []string) Intent {
	items := make([]string, 0, len(invalidIDs))
	for _, id := range invalidIDs {
		items = append(items, fmt.Sprintf("<li>%s</li>", id))
	}

	html := fmt.Sprintf(`
      <h2>Invalid User IDs Detected</h2>
      <p>The following user IDs do not exist:</p>
      <ul>%s</ul>
      <p>Please verify the user IDs and try again.</p>`,
		strings.Join(items, ""))

	return Intent{
		To:      to,
		Subject: "Invalid User IDs",
		HTML:    html,
	}
}

// RevisionContent is the combined original-vs-revised view both the original
// sender and the reviser receive.
type RevisionContent struct {
	SenderName    string
	SenderUserID  string
	SenderEmail   string
	ReviserName   string
	ReviserUserID string
	ReviserEmail  string
	ObservationID string

	OriginalLocation string
	OriginalBody     string
	OriginalPhotoURL *string

	RevisedLocation string
	RevisedBody     string
	RevisedPhotoURL *string
}

func RevisionApplied(to string, rc RevisionContent) Intent {
	html := fmt.Sprintf(`
    <h2>Observation Revised</h2>
    <h3>Original Observation:</h3>
    <ul>
      <li><strong>Sender Name:</strong> %s</li>
      <li><strong>Sender User ID:</strong> %s</li>
      <li><strong>Sender Email:</strong> %s</li>
      <li><strong>Observation ID:</strong> %s</li>
      <li><strong>Location:</strong> %s</li>
      <li><strong>Observation:</strong> %s</li>
    </ul>
    <h3>Revised Observation:</h3>
    <ul>
      <li><strong>Reviser Name:</strong> %s</li>
      <li><strong>Reviser User ID:</strong> %s</li>
      <li><strong>Reviser Email:</strong> %s</li>
      <li><strong>Revised Location:</strong> %s</li>
      <li><strong>Revised Observation:</strong> %s</li>
    </ul>`,
		rc.SenderName, rc.SenderUserID, rc.SenderEmail,
		rc.ObservationID, rc.OriginalLocation, rc.OriginalBody,
		rc.ReviserName, rc.ReviserUserID, rc.ReviserEmail,
		rc.RevisedLocation, rc.RevisedBody)

	var atts []string
	atts = append(atts, attachments(rc.OriginalPhotoURL)...)
	atts = append(atts, attachments(rc.RevisedPhotoURL)...)

	return Intent{
		To:          to,
		Subject:     fmt.Sprintf("Observation Revised - ID: %s", rc.ObservationID),
		HTML:        html,
		Attachments: atts,
	}
}

func InvalidRevision(to, observationID, claimedSenderID string) Intent {
	html := fmt.Sprintf(`
      <h2>Revision Failed</h2>
      <p>The observation ID <strong>%s</strong> does not match with sender ID <strong>%s</strong>.</p>
      <p>Please verify the information and try again.</p>`,
		observationID, claimedSenderID)

	return Intent{
		To:      to,
		Subject: "Invalid Revision Attempt",
		HTML:    html,
	}
}

func photoNote(photoURL *string) string {
	if photoURL == nil {
		return ""
	}
	return "<p>Observation photo attached.</p>"
}

func attachments(photoURL *string) []string {
	if photoURL == nil {
		return nil
	}
	return []string{*photoURL}
}
