package security

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/mailagent/server/internal/domain"
)

func TestBcryptHasherHashAndCompare(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("SecurePass123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "SecurePass123" || hash == "" {
		t.Fatalf("hash should not echo the plaintext")
	}

	if err := h.Compare(hash, "SecurePass123"); err != nil {
		t.Fatalf("compare with correct password: %v", err)
	}
	if err := h.Compare(hash, "WrongPass123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestNewBcryptHasherClampsCost(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(99)
	hash, err := h.Hash("SecurePass123")
	if err != nil {
		t.Fatalf("hash with clamped cost: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("read cost: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost %d, got %d", bcrypt.DefaultCost, cost)
	}
}
