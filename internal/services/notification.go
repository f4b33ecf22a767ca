package services

import (
	"context"
	"fmt"

	"eduevent/internal/domain"
)

// RegistrationNotifier turns confirmed registrations into confirmation emails.
type RegistrationNotifier struct {
	userRepo     domain.UserRepository
	emailService domain.EmailService
}

func NewRegistrationNotifier(userRepo domain.UserRepository, emailService domain.EmailService) *RegistrationNotifier {
	return &RegistrationNotifier{userRepo: userRepo, emailService: emailService}
}

func (n *RegistrationNotifier) HandleRegistrationConfirmed(ctx context.Context, msg *domain.RegistrationConfirmed) error {
	user, err := n.userRepo.GetByID(ctx, msg.UserID)
	if err != nil {
		return fmt.Errorf("get user %s: %w", msg.UserID, err)
	}
	return n.emailService.SendRegistrationConfirmation(ctx, &domain.RegistrationEmailData{
		Email:     user.Email,
		Name:      user.Name,
		EventName: msg.EventName,
		EventDate: msg.EventDate.Format("Mon, 02 Jan 2006 15:04 MST"),
		Room:      msg.Room,
		Token:     msg.Token,
	})
}
