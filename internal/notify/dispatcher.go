package notify

import (
	"context"
	"fmt"
	"net/mail"

	"select-studio/internal/domain/project"
)

// Event kinds fired on project state transitions.
const (
	EventUploadReady           = "upload-ready"
	EventSelectionDone         = "selection-done"
	EventFinalDelivery         = "final-delivery"
	EventExtraRetouchPurchased = "extra-retouch-purchased"
)

const (
	errUnknownEventKindFmt = "unknown notification event kind: %s"
	errInvalidRecipientFmt = "invalid notification recipient: %w"
)

// Email is one rendered transactional message.
type Email struct {
	To      []string
	From    string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

// Provider delivers a rendered email.
type Provider interface {
	Send(ctx context.Context, email *Email) error
	Name() string
}

// Dispatcher renders and fires transactional emails for project events.
// Delivery is best effort: callers log failures and carry on, they never
// fail the triggering workflow on a dispatch error.
type Dispatcher struct {
	provider       Provider
	from           string
	adminEmail     string
	galleryBaseURL string
}

func NewDispatcher(provider Provider, from, adminEmail, galleryBaseURL string) *Dispatcher {
	return &Dispatcher{
		provider:       provider,
		from:           from,
		adminEmail:     adminEmail,
		galleryBaseURL: galleryBaseURL,
	}
}

// Notify renders the template for kind and sends it. Selection-done goes
// to the photographer; every other kind goes to the client.
func (d *Dispatcher) Notify(ctx context.Context, kind string, p *project.Project) error {
	content, err := render(kind, p, d.galleryBaseURL)
	if err != nil {
		return err
	}

	to := p.Email
	if kind == EventSelectionDone {
		to = d.adminEmail
	}

	if _, err := mail.ParseAddress(to); err != nil {
		return fmt.Errorf(errInvalidRecipientFmt, err)
	}

	return d.provider.Send(ctx, &Email{
		To:      []string{to},
		From:    d.from,
		ReplyTo: d.adminEmail,
		Subject: content.Subject,
		HTML:    content.HTML,
		Text:    content.Text,
	})
}
