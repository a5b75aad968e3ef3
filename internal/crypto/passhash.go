// Package crypto implements server-side password hashing and verification.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters (tuned for server-side hashing).
const (
	argonTime    uint32 = 3         // iterations
	argonMemory  uint32 = 64 * 1024 // 64 MB
	argonThreads uint8  = 1
	argonKeyLen  uint32 = 32
	saltLen             = 16
)

const credentialPrefix = "argon2id$"

// ErrMalformedCredential is returned when an encoded credential cannot be parsed.
var ErrMalformedCredential = errors.New("malformed credential")

// Credential is a salted Argon2id password hash.
type Credential struct {
	Salt []byte
	Hash []byte
}

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// HashPassword returns Argon2id hash of password using the provided salt.
func HashPassword(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// NewCredential hashes password with a fresh salt.
func NewCredential(password string) (Credential, error) {
	salt, err := RandBytes(saltLen)
	if err != nil {
		return Credential{}, err
	}
	return Credential{Salt: salt, Hash: HashPassword([]byte(password), salt)}, nil
}

// Verify reports whether password matches the credential in constant time.
func (c Credential) Verify(password string) bool {
	if len(c.Hash) == 0 {
		return false
	}
	got := HashPassword([]byte(password), c.Salt)
	return subtle.ConstantTimeCompare(got, c.Hash) == 1
}

// String encodes the credential as "argon2id$<salt>$<hash>" with raw base64.
func (c Credential) String() string {
	enc := base64.RawStdEncoding
	return credentialPrefix + enc.EncodeToString(c.Salt) + "$" + enc.EncodeToString(c.Hash)
}

// IsEncoded reports whether s looks like an encoded credential rather than a plain password.
func IsEncoded(s string) bool { return strings.HasPrefix(s, credentialPrefix) }

// ParseCredential decodes the output of Credential.String.
func ParseCredential(s string) (Credential, error) {
	if !IsEncoded(s) {
		return Credential{}, ErrMalformedCredential
	}
	parts := strings.Split(strings.TrimPrefix(s, credentialPrefix), "$")
	if len(parts) != 2 {
		return Credential{}, ErrMalformedCredential
	}
	enc := base64.RawStdEncoding
	salt, err := enc.DecodeString(parts[0])
	if err != nil {
		return Credential{}, ErrMalformedCredential
	}
	hash, err := enc.DecodeString(parts[1])
	if err != nil || len(hash) != int(argonKeyLen) {
		return Credential{}, ErrMalformedCredential
	}
	return Credential{Salt: salt, Hash: hash}, nil
}
