package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"eduevent/internal/delivery/http/helpers"
	"eduevent/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthController_SignUp(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{"created", SignUpRequest{Email: "ada@uni.edu", Password: "longenough", Name: "Ada"}, nil, http.StatusCreated, ""},
		{"missing fields", SignUpRequest{Email: "ada@uni.edu"}, nil, http.StatusBadRequest, helpers.ErrCodeBadRequest},
		{"unknown field", `{"email":"a@b.co","password":"x","name":"A","admin":true}`, nil, http.StatusBadRequest, helpers.ErrCodeBadRequest},
		{"service rejects input", SignUpRequest{Email: "bad", Password: "longenough", Name: "Ada"}, domain.InvalidInputError("invalid email format"), http.StatusBadRequest, helpers.ErrCodeBadRequest},
		{"duplicate email", SignUpRequest{Email: "ada@uni.edu", Password: "longenough", Name: "Ada"}, domain.ErrDuplicateEmail, http.StatusConflict, helpers.ErrCodeConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAuthService{signUpErr: tt.svcErr}
			ctrl := NewAuthController(testLogger, svc)
			rec := httptest.NewRecorder()

			ctrl.SignUp(rec, newRequest(http.MethodPost, "/auth/signup", tt.body, nil, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var user map[string]any
			apiErr := decodeResponse(t, rec, &user)
			if tt.wantCode != "" {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantCode, apiErr.Code)
				return
			}
			require.Nil(t, apiErr)
			assert.Equal(t, "ada@uni.edu", user["email"])
			assert.NotContains(t, user, "password_hash")
		})
	}
}

func TestAuthController_Login(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		ctrl := NewAuthController(testLogger, &fakeAuthService{})
		rec := httptest.NewRecorder()
		ctrl.Login(rec, newRequest(http.MethodPost, "/auth/login", LoginRequest{Email: "ada@uni.edu", Password: "pw"}, nil, nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp LoginResponse
		require.Nil(t, decodeResponse(t, rec, &resp))
		assert.Equal(t, "jwt-token", resp.Token)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, "u1", resp.User.ID)
	})

	t.Run("bad credentials", func(t *testing.T) {
		ctrl := NewAuthController(testLogger, &fakeAuthService{loginErr: domain.ErrInvalidCredentials})
		rec := httptest.NewRecorder()
		ctrl.Login(rec, newRequest(http.MethodPost, "/auth/login", LoginRequest{Email: "ada@uni.edu", Password: "nope"}, nil, nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing password", func(t *testing.T) {
		ctrl := NewAuthController(testLogger, &fakeAuthService{})
		rec := httptest.NewRecorder()
		ctrl.Login(rec, newRequest(http.MethodPost, "/auth/login", LoginRequest{Email: "ada@uni.edu"}, nil, nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
