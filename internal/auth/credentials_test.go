package auth

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasherRoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("password1")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "password1" {
		t.Fatal("Expected hash to differ from the password")
	}
	if !h.Verify("password1", hash) {
		t.Error("Expected correct password to verify")
	}
	if h.Verify("password2", hash) {
		t.Error("Expected wrong password to fail")
	}
	if h.Verify("password1", "not-a-bcrypt-hash") {
		t.Error("Expected malformed hash to fail verification")
	}
}

func TestBcryptHasherDefaultCost(t *testing.T) {
	if h := NewBcryptHasher(0); h.Cost != DefaultCost {
		t.Errorf("Expected cost %d, got %d", DefaultCost, h.Cost)
	}
}

func TestBcryptHasherLongPassword(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	long := strings.Repeat("a", 80)

	hash, err := h.Hash(long)
	if err != nil {
		t.Fatalf("Hash(80 bytes): %v", err)
	}
	if !h.Verify(long, hash) {
		t.Error("Expected long password to verify against its own hash")
	}
	// Only the first 72 bytes take part in the comparison.
	if !h.Verify(strings.Repeat("a", 72)+"different tail", hash) {
		t.Error("Expected bytes past 72 to be ignored")
	}
	if h.Verify(strings.Repeat("a", 71)+"b", hash) {
		t.Error("Expected a change inside the first 72 bytes to fail")
	}
}

func TestParseAuthorization(t *testing.T) {
	basic := base64.StdEncoding.EncodeToString([]byte("carol:s3cret:with:colons"))

	tests := []struct {
		name   string
		header string
		want   Credentials
		err    error
	}{
		{"plain token", "Basic alice:password1", Credentials{"alice", "password1"}, nil},
		{"other scheme", "Token bob:hunter22", Credentials{"bob", "hunter22"}, nil},
		{"base64 basic", "Basic " + basic, Credentials{"carol", "s3cret:with:colons"}, nil},
		{"empty password", "Basic alice:", Credentials{"alice", ""}, nil},
		{"missing", "", Credentials{}, ErrMissingAuthorization},
		{"no token", "Basic", Credentials{}, ErrMalformedAuthorization},
		{"no colon", "Basic alice", Credentials{}, ErrMalformedAuthorization},
		{"no username", "Basic :password1", Credentials{}, ErrMalformedAuthorization},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAuthorization(tt.header)
			if !errors.Is(err, tt.err) {
				t.Fatalf("Expected error %v, got %v", tt.err, err)
			}
			if got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}
