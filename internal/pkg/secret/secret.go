// Package secret provides one-way hashing for sensitive strings
// (verification codes, emails embedded in tokens).
package secret

import "golang.org/x/crypto/bcrypt"

// cost is intentionally expensive; hashed values are low-entropy
// (6-digit codes, emails), so the work factor is the defense.
const cost = 12

// Hash returns a salted bcrypt digest of plaintext.
func Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Compare reports whether plaintext matches the digest.
func Compare(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
