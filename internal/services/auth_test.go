package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"eduevent/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_SignUp(t *testing.T) {
	ctx := context.Background()
	userRepo := newFakeUserRepo()
	hasher := &fakePasswordHasher{salt: "s"}
	svc := NewAuthService(userRepo, hasher, &fakeTokenIssuer{}, time.Hour)

	user, err := svc.SignUp(ctx, " Alice@Example.com ", "password8", " Alice ", "event_manager")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, domain.RoleEventManager, user.Role)
	assert.Equal(t, "hash-password8", user.PasswordHash)
	assert.Equal(t, "s", user.Salt)

	// unknown roles fall back to student
	user2, err := svc.SignUp(ctx, "bob@example.com", "password9", "Bob", "wizard")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, user2.Role)

	_, err = svc.SignUp(ctx, "alice@example.com", "password8", "Again", "")
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestAuthService_SignUp_Validation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "bad email", email: "not-an-email", password: "password8"},
		{name: "short password", email: "a@example.com", password: "short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAuthService(newFakeUserRepo(), &fakePasswordHasher{}, &fakeTokenIssuer{}, time.Hour)
			_, err := svc.SignUp(context.Background(), tt.email, tt.password, "x", "")
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	u := &domain.User{ID: "u1", Email: "login@example.com", Role: domain.RoleVolunteer, PasswordHash: "hash-secret123", Salt: "s", Name: "Login User", CreatedAt: now, UpdatedAt: now}
	issuer := &fakeTokenIssuer{token: "jwt-token-123"}
	svc := NewAuthService(newFakeUserRepo(u), &fakePasswordHasher{}, issuer, time.Hour)

	token, user, err := svc.Login(ctx, "Login@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token-123", token)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, []string{domain.RoleVolunteer}, issuer.roles)

	_, _, err = svc.Login(ctx, "login@example.com", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_IssuerError(t *testing.T) {
	u := &domain.User{ID: "u1", Email: "a@example.com", PasswordHash: "hash-secret123"}
	svc := NewAuthService(newFakeUserRepo(u), &fakePasswordHasher{}, &fakeTokenIssuer{err: errors.New("boom")}, time.Hour)

	_, _, err := svc.Login(context.Background(), "a@example.com", "secret123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
}
