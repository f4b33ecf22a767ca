package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"eduevent/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCertificateService struct {
	err error
}

func (f *fakeCertificateService) Generate(_ context.Context, eventID, userID string) (*domain.Certificate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Certificate{EventID: eventID, UserID: userID, Text: "CERTIFICATE OF PARTICIPATION"}, nil
}

func TestCertificateController_GetCertificate(t *testing.T) {
	paths := map[string]string{"eventID": "e1"}

	t.Run("json", func(t *testing.T) {
		ctrl := NewCertificateController(testLogger, &fakeCertificateService{})
		rec := httptest.NewRecorder()
		ctrl.GetCertificate(rec, newRequest(http.MethodGet, "/events/e1/certificate", nil, student("u1"), paths))

		require.Equal(t, http.StatusOK, rec.Code)
		var cert domain.Certificate
		require.Nil(t, decodeResponse(t, rec, &cert))
		assert.Equal(t, "u1", cert.UserID)
	})

	t.Run("plain text", func(t *testing.T) {
		ctrl := NewCertificateController(testLogger, &fakeCertificateService{})
		req := newRequest(http.MethodGet, "/events/e1/certificate", nil, student("u1"), paths)
		req.Header.Set("Accept", "text/plain")
		rec := httptest.NewRecorder()
		ctrl.GetCertificate(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "CERTIFICATE OF PARTICIPATION", rec.Body.String())
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "certificate.txt")
	})

	t.Run("not registered", func(t *testing.T) {
		ctrl := NewCertificateController(testLogger, &fakeCertificateService{err: domain.ErrRegistrationNotFound})
		rec := httptest.NewRecorder()
		ctrl.GetCertificate(rec, newRequest(http.MethodGet, "/events/e1/certificate", nil, student("u1"), paths))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
