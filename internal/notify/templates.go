package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"select-studio/internal/domain/project"
)

type templateContext struct {
	Name       string
	Email      string
	Message    string
	ButtonText string
	ActionURL  string
	Count      int
}

type rendered struct {
	Subject string
	HTML    string
	Text    string
}

const baseHTML = `<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #222;">
  <p>Hallo {{.Name}},</p>
  <p>{{.Message}}</p>
  <p><a href="{{.ActionURL}}" style="display:inline-block;padding:12px 24px;background:#111;color:#fff;text-decoration:none;">{{.ButtonText}}</a></p>
  <p>Select Studio</p>
</body>
</html>`

const baseText = `Hallo {{.Name}},

{{.Message}}

{{.ButtonText}}: {{.ActionURL}}

Select Studio`

var (
	htmlTemplate = template.Must(template.New("notify_html").Parse(baseHTML))
	textTemplate = template.Must(template.New("notify_text").Parse(baseText))
)

const (
	subjectUploadReady   = "Deine Galerie ist online!"
	subjectSelectionDone = "Kunde %s hat ausgewählt"
	subjectFinalDelivery = "Deine fertigen Bilder sind da!"
	subjectExtraRetouch  = "Extra-Retusche hinzugefügt"

	messageUploadReady   = "Deine Bilder sind bereit. Du kannst ab sofort deine Auswahl treffen."
	messageSelectionDone = "Der Kunde %s hat seine Foto- und Retusche-Auswahl getroffen (%d Bilder). Du kannst die Bilder jetzt herunterladen und bearbeiten."
	messageFinalDelivery = "Die Bearbeitung ist abgeschlossen. Du kannst deine Bilder jetzt herunterladen."
	messageExtraRetouch  = "Dein Paket wurde um eine Extra-Retusche erweitert (jetzt %d). Damit hast du einen zusätzlichen Bild-Slot und eine zusätzliche Retusche."

	buttonViewGallery  = "Galerie ansehen"
	buttonAdminReview  = "Zur Bearbeitung"
	buttonDownload     = "Bilder herunterladen"
	adminRecipientName = "Admin"
)

func render(kind string, p *project.Project, galleryBaseURL string) (*rendered, error) {
	galleryURL := fmt.Sprintf("%s?projectId=%s", galleryBaseURL, p.ID)

	ctx := templateContext{
		Name:      clientName(p.Email),
		Email:     p.Email,
		ActionURL: galleryURL,
		Count:     len(p.Selections),
	}

	var subject string
	switch kind {
	case EventUploadReady:
		subject = subjectUploadReady
		ctx.Message = messageUploadReady
		ctx.ButtonText = buttonViewGallery
	case EventSelectionDone:
		subject = fmt.Sprintf(subjectSelectionDone, p.Email)
		ctx.Name = adminRecipientName
		ctx.Message = fmt.Sprintf(messageSelectionDone, p.Email, len(p.Selections))
		ctx.ButtonText = buttonAdminReview
	case EventFinalDelivery:
		subject = subjectFinalDelivery
		ctx.Message = messageFinalDelivery
		ctx.ButtonText = buttonDownload
	case EventExtraRetouchPurchased:
		subject = subjectExtraRetouch
		ctx.Message = fmt.Sprintf(messageExtraRetouch, p.ExtraRetouches)
		ctx.ButtonText = buttonViewGallery
	default:
		return nil, fmt.Errorf(errUnknownEventKindFmt, kind)
	}

	var htmlBuf bytes.Buffer
	if err := htmlTemplate.Execute(&htmlBuf, ctx); err != nil {
		return nil, err
	}

	var textBuf bytes.Buffer
	if err := textTemplate.Execute(&textBuf, ctx); err != nil {
		return nil, err
	}

	return &rendered{
		Subject: subject,
		HTML:    htmlBuf.String(),
		Text:    textBuf.String(),
	}, nil
}

func clientName(email string) string {
	for i := 0; i < len(email); i++ {
		if email[i] == '@' {
			return email[:i]
		}
	}
	return email
}
