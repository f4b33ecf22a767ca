package services

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"io"
	"strings"

	"eduevent/internal/domain"
)

const (
	registrationTokenPrefix = "evt_"
	registrationTokenBytes  = 16
)

var tokenEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

type randomTokenGenerator struct {
	reader io.Reader
}

// NewTokenGenerator returns a TokenGenerator backed by crypto/rand. Tokens carry 128 bits of entropy.
func NewTokenGenerator() domain.TokenGenerator {
	return &randomTokenGenerator{reader: rand.Reader}
}

func (g *randomTokenGenerator) Generate() (string, error) {
	b := make([]byte, registrationTokenBytes)
	if _, err := io.ReadFull(g.reader, b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return registrationTokenPrefix + strings.ToLower(tokenEncoding.EncodeToString(b)), nil
}
