package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashCredential hashes a secret with bcrypt at the default cost.
// The cost is adaptive, so stored digests stay expensive to brute-force
// as hardware improves.
func HashCredential(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash credential: %w", err)
	}
	return string(hash), nil
}

// VerifyCredential reports whether secret matches digest. bcrypt's
// comparison is constant-time with respect to the secret.
func VerifyCredential(secret, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)) == nil
}
