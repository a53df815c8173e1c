package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const (
	// 256 bits of entropy for opaque tokens.
	tokenSize = 32
)

// GenerateToken creates a cryptographically random opaque token.
// These are not structured tokens; they are random bytes whose hash we store
// in the database and validate against on each use.
// Returns the token string in base64-urlencoded format.
func GenerateToken() (string, error) {
	b := make([]byte, tokenSize)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return base64.URLEncoding.EncodeToString(b), nil
}

// HashToken creates a SHA-256 hash of an opaque token for database storage.
// We store hashed tokens so database compromise doesn't leak valid session or
// reset tokens. Uses hex encoding for simplicity.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
