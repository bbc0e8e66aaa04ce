package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/Dan9191/apartment-model/internal/models"
)

// Fingerprint returns a stable hex digest of the assumptions, used as a cache key.
// Identical assumptions always produce the same fingerprint.
func Fingerprint(p models.InputParameters) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode input: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// GenerateHMAC signs the assumptions of a stored scenario
func GenerateHMAC(p models.InputParameters, secret string) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode input: %w", err)
	}
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// VerifyHMAC reports whether signature matches the assumptions
func VerifyHMAC(p models.InputParameters, signature, secret string) bool {
	expected, err := GenerateHMAC(p, secret)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(signature))
}
