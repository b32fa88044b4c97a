package email

import (
	"context"
	"time"
)

// SendRequest contains the data needed to send a reminder email via an
// external provider.
type SendRequest struct {
	To      []string // Recipient email addresses
	From    string   // Sender address (e.g. "Revive Fitness <noreply@revivefitness.com>")
	Subject string
	HTML    string // HTML body
	ReplyTo string // Reply-to address
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string    // Provider's message ID for tracking
	SentAt    time.Time // When the send was accepted
}

// Sender is the interface for sending emails via an external provider.
// The reminder worker delivers one entry per call so that attempt
// bookkeeping stays per-entry.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
