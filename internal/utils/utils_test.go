package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsPGUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	if !IsPGUniqueViolation(unique) {
		t.Fatal("23505 not detected")
	}
	if !IsPGUniqueViolation(fmt.Errorf("insert user: %w", unique)) {
		t.Fatal("wrapped 23505 not detected")
	}
	if IsPGUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatal("foreign key violation reported as unique")
	}
	if IsPGUniqueViolation(errors.New("boom")) {
		t.Fatal("plain error reported as unique")
	}
}

func TestContainsPattern(t *testing.T) {
	cases := map[string]string{
		"milk":     "%milk%",
		"50%":      `%50\%%`,
		"snake_id": `%snake\_id%`,
		`a\b`:      `%a\\b%`,
	}
	for in, want := range cases {
		if got := ContainsPattern(in); got != want {
			t.Fatalf("ContainsPattern(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Jane.Doe@Example.COM "); got != "jane.doe@example.com" {
		t.Fatalf("got %q", got)
	}
}
