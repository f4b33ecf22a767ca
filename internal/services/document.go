package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"eduevent/internal/domain"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type documentService struct {
	store domain.DocumentStore
	now   func() time.Time
	newID func() string
}

func NewDocumentService(store domain.DocumentStore) domain.DocumentService {
	return &documentService{store: store, now: time.Now, newID: uuid.NewString}
}

// Upload stores body under documents/{userID}/{eventID_}{unixMilli}_{uuid}_{name} and returns that key as the
// reference. Keys never repeat, so an upload cannot replace a document a registration already points at.
func (s *documentService) Upload(ctx context.Context, userID string, eventID *string, fileName, contentType string, body io.Reader, size int64) (*domain.Document, error) {
	if userID == "" {
		return nil, domain.InvalidInputError("user id is required")
	}
	if size <= 0 {
		return nil, domain.InvalidInputError("file is empty")
	}
	if size > domain.MaxDocumentSize {
		return nil, domain.InvalidInputError("file exceeds %d bytes", domain.MaxDocumentSize)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	name := sanitizeFileName(fileName)
	prefix := ""
	if eventID != nil && *eventID != "" {
		prefix = sanitizeFileName(*eventID) + "_"
	}
	key := fmt.Sprintf("documents/%s/%s%d_%s_%s", sanitizeFileName(userID), prefix, s.now().UnixMilli(), s.newID(), name)

	if err := s.store.Put(ctx, key, contentType, body, size); err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}
	return &domain.Document{Ref: key, FileName: name, ContentType: contentType, Size: size}, nil
}

func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Trim(unsafeFileChars.ReplaceAllString(name, "_"), "._")
	if name == "" {
		return "document"
	}
	return name
}
