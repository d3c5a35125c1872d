package session

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	csrfSecretBytes = 18
	csrfSaltBytes   = 6
)

// NewCSRFSecret returns a random per-session secret
func NewCSRFSecret() (string, error) {
	return randomString(csrfSecretBytes)
}

// CSRFToken derives a fresh token from the secret: "<salt>-<mac>". The salt is
// hex so the first dash always separates the two parts.
func CSRFToken(secret string) (string, error) {
	b := make([]byte, csrfSaltBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	salt := hex.EncodeToString(b)
	return salt + "-" + csrfMAC(secret, salt), nil
}

// VerifyCSRFToken checks a token produced by CSRFToken for the same secret
func VerifyCSRFToken(secret, token string) bool {
	if secret == "" || token == "" {
		return false
	}
	salt, mac, ok := strings.Cut(token, "-")
	if !ok || salt == "" {
		return false
	}
	return hmac.Equal([]byte(mac), []byte(csrfMAC(secret, salt)))
}

func csrfMAC(secret, salt string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(salt))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

func randomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
