package security

import (
	"crypto/sha256"
	"encoding/base64"
)

// Fingerprint - отпечаток refresh токена, который хранится в БД вместо самого токена.
func Fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
