package auth

import (
	"encoding/base64"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const DefaultCost = 10

// bcrypt only looks at the first 72 bytes of a password.
const maxPasswordBytes = 72

var (
	ErrMissingAuthorization   = errors.New("authorization credentials not found")
	ErrMalformedAuthorization = errors.New("malformed authorization credentials")
)

// Hasher owns the password hash/verify boundary.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// BcryptHasher hashes with bcrypt at the given cost.
type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher(cost int) BcryptHasher {
	if cost == 0 {
		cost = DefaultCost
	}
	return BcryptHasher{Cost: cost}
}

func (h BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword(passwordBytes(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether password matches hash. A malformed hash is a
// mismatch, not an error.
func (h BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), passwordBytes(password)) == nil
}

// passwordBytes truncates to the bcrypt limit so long passwords hash the
// same way they verify instead of failing with ErrPasswordTooLong.
func passwordBytes(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

// Credentials is a username/password pair taken from a request.
type Credentials struct {
	Username string
	Password string
}

// ParseAuthorization reads "<scheme> <credentials>". The credentials token
// is normally plain "user:pass" text; for the Basic scheme a base64 token
// that decodes to "user:pass" is accepted too. The password is everything
// after the first colon.
func ParseAuthorization(header string) (Credentials, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return Credentials{}, ErrMissingAuthorization
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return Credentials{}, ErrMalformedAuthorization
	}

	if strings.EqualFold(scheme, "basic") && !strings.Contains(token, ":") {
		if decoded, err := base64.StdEncoding.DecodeString(token); err == nil {
			token = string(decoded)
		}
	}

	username, password, ok := strings.Cut(token, ":")
	if !ok || username == "" {
		return Credentials{}, ErrMalformedAuthorization
	}
	return Credentials{Username: username, Password: password}, nil
}
