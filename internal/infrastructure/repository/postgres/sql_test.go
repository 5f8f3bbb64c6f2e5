package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Run("matches 23505", func(t *testing.T) {
		err := fmt.Errorf("insert assignments: %w", &pq.Error{Code: "23505"})
		if !isUniqueViolation(err) {
			t.Fatalf("expected true for unique violation")
		}
	})

	t.Run("ignores other pq codes", func(t *testing.T) {
		err := &pq.Error{Code: "23503"}
		if isUniqueViolation(err) {
			t.Fatalf("expected false for foreign key violation")
		}
	})

	t.Run("ignores non-pq errors", func(t *testing.T) {
		if isUniqueViolation(fmt.Errorf("pq: duplicate key value (23505)")) {
			t.Fatalf("expected false for plain error text")
		}
	})
}

func TestNullStringToString(t *testing.T) {
	if got := nullStringToString(sql.NullString{String: "left the guild", Valid: true}); got != "left the guild" {
		t.Fatalf("unexpected value: %q", got)
	}
	if got := nullStringToString(sql.NullString{}); got != "" {
		t.Fatalf("expected empty string for null, got %q", got)
	}
}
