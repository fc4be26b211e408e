// Package cryptox implements password hashing for the credential store.
//
// Two encodings are understood:
//   - sha256: the bare lowercase hex SHA-256 digest of the password, as
//     written by earlier versions of the service;
//   - argon2id: "$argon2id$v=19$m=<mem>,t=<time>,p=<threads>$<salt>$<key>"
//     with unpadded standard base64 salt and key.
//
// VerifyPassword accepts either, so a store can move to argon2id one
// password reset at a time.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/securevault/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	HasherSHA256   = "sha256"
	HasherArgon2id = "argon2id"

	argon2idPrefix = "$argon2id$"
)

// PasswordHasher produces the stored representation of a password.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// NewPasswordHasher returns the hasher registered under name.
func NewPasswordHasher(name string) (PasswordHasher, error) {
	switch strings.ToLower(name) {
	case "", HasherSHA256:
		return SHA256Hasher{}, nil
	case HasherArgon2id:
		return DefaultArgon2id(), nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", name)
	}
}

type SHA256Hasher struct{}

func (SHA256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

// Argon2idHasher derives a salted key with argon2.IDKey.
type Argon2idHasher struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
	SaltLen int
}

func DefaultArgon2id() Argon2idHasher {
	return Argon2idHasher{Time: 1, Memory: 64 * 1024, Threads: 4, KeyLen: 32, SaltLen: 16}
}

func (h Argon2idHasher) Hash(password string) (string, error) {
	salt := common.GenerateRandByteArray(h.SaltLen)
	key := argon2.IDKey([]byte(password), salt, h.Time, h.Memory, h.Threads, h.KeyLen)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2idPrefix, argon2.Version, h.Memory, h.Time, h.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword compares password against a stored hash in either
// encoding. Comparison is constant time; malformed hashes never match.
func VerifyPassword(stored, password string) bool {
	if strings.HasPrefix(stored, argon2idPrefix) {
		return verifyArgon2id(stored, password)
	}

	candidate, _ := SHA256Hasher{}.Hash(password)
	return subtle.ConstantTimeCompare([]byte(strings.ToLower(stored)), []byte(candidate)) == 1
}

func verifyArgon2id(stored, password string) bool {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(stored, "$")
	if len(parts) != 6 {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false
	}
	// argon2.IDKey panics on zero rounds or lanes
	if time < 1 || threads < 1 || memory == 0 {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false
	}

	got := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(want)))
	defer common.WipeByteArray(got)

	return subtle.ConstantTimeCompare(got, want) == 1
}
