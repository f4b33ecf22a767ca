package services

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"text/template"
	"time"

	"eduevent/internal/domain"
)

//go:embed templates/certificate.txt.tmpl
var certificateFS embed.FS

var certificateTemplate = template.Must(template.ParseFS(certificateFS, "templates/certificate.txt.tmpl"))

type certificateData struct {
	Name      string
	EventName string
	Speaker   string
	Room      string
	Date      string
	IssuedOn  string
	Token     string
}

type certificateService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.RegistrationRepository
	userRepo         domain.UserRepository
	now              func() time.Time
}

func NewCertificateService(eventRepo domain.EventRepository, registrationRepo domain.RegistrationRepository, userRepo domain.UserRepository) domain.CertificateService {
	return &certificateService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		userRepo:         userRepo,
		now:              time.Now,
	}
}

// Generate renders a participation certificate. Only registered attendees get one.
func (s *certificateService) Generate(ctx context.Context, eventID, userID string) (*domain.Certificate, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	reg, err := s.registrationRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	name := user.Name
	if name == "" {
		name = user.Email
	}

	var buf bytes.Buffer
	err = certificateTemplate.Execute(&buf, certificateData{
		Name:      name,
		EventName: event.Name,
		Speaker:   event.Speaker,
		Room:      event.Room,
		Date:      event.Date.Format("January 2, 2006"),
		IssuedOn:  s.now().Format("January 2, 2006"),
		Token:     reg.Token,
	})
	if err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}
	return &domain.Certificate{EventID: eventID, UserID: userID, Text: buf.String()}, nil
}
