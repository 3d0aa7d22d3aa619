package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"time"
)

// MinSessionSecretLength is the shortest accepted cookie signing key.
const MinSessionSecretLength = 16

// SessionConfig holds the signing key and lifetime of the session cookie.
type SessionConfig struct {
	Secret string
	TTL    time.Duration
	// Generated is true when Secret was created at startup; sessions then do
	// not survive a restart.
	Generated bool
}

// NewSessionConfig builds the cookie configuration. An empty secret falls
// back to SESSION_SECRET, then to a random key.
func NewSessionConfig(secret string, ttl time.Duration) (*SessionConfig, error) {
	if secret == "" {
		secret = os.Getenv("SESSION_SECRET")
	}

	cfg := &SessionConfig{Secret: secret, TTL: ttl}
	if cfg.Secret == "" {
		key, err := randomSecret(32)
		if err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		cfg.Secret = key
		cfg.Generated = true
		log.Printf("[session] SESSION_SECRET not set, using a generated key")
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *SessionConfig) normalize() error {
	if len(c.Secret) < MinSessionSecretLength {
		return fmt.Errorf("SESSION_SECRET must be at least %d characters, got: %d", MinSessionSecretLength, len(c.Secret))
	}
	if c.TTL < time.Minute {
		return fmt.Errorf("session TTL must be at least 1 minute, got: %s", c.TTL)
	}
	return nil
}

func randomSecret(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
