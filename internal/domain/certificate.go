package domain

import "context"

// Certificate is a rendered participation certificate.
// swagger:model Certificate
type Certificate struct {
	EventID string `json:"event_id"`
	UserID  string `json:"user_id"`
	Text    string `json:"text"`
}

// CertificateService issues participation certificates to registered attendees.
type CertificateService interface {
	Generate(ctx context.Context, eventID, userID string) (*Certificate, error)
}
