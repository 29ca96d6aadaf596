package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	resendAPIURL     = "https://api.resend.com"
	resendEmailsPath = "/emails"
	providerResend   = "resend"

	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	authBearerPrefix    = "Bearer "
	mimeApplicationJSON = "application/json"

	resendSendTimeout = 10 * time.Second

	errResendAPIKeyRequired    = "resend API key required"
	errFailedMarshalPayloadFmt = "failed to marshal email payload: %w"
	errFailedCreateRequestFmt  = "failed to create email request: %w"
	errRequestFailedFmt        = "email request failed: %w"
	errResendAPIStatusFmt      = "resend API returned status %d: %s"
)

// ResendProvider sends mail through the Resend HTTP API.
type ResendProvider struct {
	apiKey string
	apiURL string
	client *http.Client
}

type ResendConfig struct {
	APIKey string
	APIURL string
}

func NewResendProvider(cfg ResendConfig) *ResendProvider {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = resendAPIURL
	}

	return &ResendProvider{
		apiKey: cfg.APIKey,
		apiURL: apiURL,
		client: &http.Client{Timeout: resendSendTimeout},
	}
}

func (p *ResendProvider) Name() string {
	return providerResend
}

func (p *ResendProvider) Send(ctx context.Context, email *Email) error {
	if p.apiKey == "" {
		return fmt.Errorf(errResendAPIKeyRequired)
	}

	payload := map[string]interface{}{
		"from":    email.From,
		"to":      email.To,
		"subject": email.Subject,
		"html":    email.HTML,
	}

	if email.Text != "" {
		payload["text"] = email.Text
	}
	if email.ReplyTo != "" {
		payload["reply_to"] = email.ReplyTo
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf(errFailedMarshalPayloadFmt, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL+resendEmailsPath, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf(errFailedCreateRequestFmt, err)
	}

	req.Header.Set(headerAuthorization, authBearerPrefix+p.apiKey)
	req.Header.Set(headerContentType, mimeApplicationJSON)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf(errRequestFailedFmt, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf(errResendAPIStatusFmt, resp.StatusCode, string(body))
	}

	return nil
}
