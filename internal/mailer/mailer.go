// Package mailer sends transactional email through the Mailtrap HTTP API.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/utsavhq/utsav/internal/config"
	"github.com/utsavhq/utsav/internal/model"
)

// Recipient is an email address with an optional display name.
type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendRequest struct {
	From     Recipient   `json:"from"`
	To       []Recipient `json:"to"`
	Subject  string      `json:"subject"`
	HTML     string      `json:"html,omitempty"`
	Text     string      `json:"text,omitempty"`
	Category string      `json:"category,omitempty"`
}

// Service sends email via the Mailtrap send API. With no API key
// configured it becomes a no-op that logs what it would have sent.
type Service struct {
	cfg    config.Mailtrap
	client *http.Client
}

// New constructs a mailer from config.
func New(cfg config.Mailtrap) *Service {
	return &Service{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether an API key is configured.
func (s *Service) Enabled() bool {
	return s.cfg.APIKey != ""
}

// SendRegistrationConfirmation emails the team leader that their
// registration for the event was received.
func (s *Service) SendRegistrationConfirmation(ctx context.Context, user *model.User, event *model.Event) error {
	deadline := "see event page"
	if !event.RegistrationDeadline.IsZero() {
		deadline = event.RegistrationDeadline.Format("02 Jan 2006")
	}
	venue := event.Venue
	if venue == "" {
		venue = "to be announced"
	}

	htmlBody := fmt.Sprintf(`
		<h1>Registration Confirmation</h1>
		<p>Dear %s,</p>
		<p>Your registration for %s has been received.</p>
		<p>Event Details:</p>
		<ul>
			<li>Event: %s</li>
			<li>Registration deadline: %s</li>
			<li>Venue: %s</li>
		</ul>
		<p>Thank you for registering!</p>
	`, user.Name, event.EventName, event.EventName, deadline, venue)

	textBody := fmt.Sprintf(
		"Dear %s,\n\nYour registration for %s has been received.\n\nEvent: %s\nRegistration deadline: %s\nVenue: %s\n\nThank you for registering!\n",
		user.Name, event.EventName, event.EventName, deadline, venue,
	)

	return s.send(ctx, sendRequest{
		From:     Recipient{Email: s.cfg.FromEmail, Name: s.cfg.FromName},
		To:       []Recipient{{Email: user.Email, Name: user.Name}},
		Subject:  "Registration Confirmation - " + event.EventName,
		HTML:     htmlBody,
		Text:     textBody,
		Category: "registration",
	})
}

func (s *Service) send(ctx context.Context, req sendRequest) error {
	if !s.Enabled() {
		log.Printf("mailer disabled, skipping %q to %s", req.Subject, req.To[0].Email)
		return nil
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("send email: mailtrap returned %s", resp.Status)
	}
	return nil
}
