package domain

import (
	"context"
	"io"
)

// MaxDocumentSize is the largest accepted supporting document.
const MaxDocumentSize = 10 << 20

// Document describes an uploaded supporting document.
// swagger:model Document
type Document struct {
	Ref         string `json:"ref"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// DocumentStore persists uploaded file bodies under a key.
type DocumentStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
}

// DocumentService uploads supporting documents and returns a reference for registrations.
type DocumentService interface {
	Upload(ctx context.Context, userID string, eventID *string, fileName, contentType string, body io.Reader, size int64) (*Document, error)
}
