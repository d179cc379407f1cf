package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mailagent/server/internal/domain"
)

func TestUniqueViolation(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "users_email_key"}
	constraint, ok := uniqueViolation(fmt.Errorf("create user: %w", pgErr))
	if !ok {
		t.Fatal("wrapped unique violation not detected")
	}
	if constraint != "users_email_key" {
		t.Fatalf("constraint = %q, want users_email_key", constraint)
	}

	if _, ok := uniqueViolation(&pgconn.PgError{Code: "23503"}); ok {
		t.Fatal("foreign-key violation should not count as unique")
	}
	if _, ok := uniqueViolation(errors.New("connection reset")); ok {
		t.Fatal("plain error should not count as unique")
	}
}

func TestDuplicateUserKeyError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		constraint string
		want       error
	}{
		{"users_email_key", domain.ErrDuplicateEmail},
		{"users_username_key", domain.ErrDuplicateUsername},
		{"users_reset_token_key", domain.ErrConflict},
		{"", domain.ErrConflict},
	}
	for _, tc := range cases {
		if got := duplicateUserKeyError(tc.constraint); !errors.Is(got, tc.want) {
			t.Errorf("duplicateUserKeyError(%q) = %v, want %v", tc.constraint, got, tc.want)
		}
	}
}
