package dberr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm translated", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true},
		{"pg code", &pgconn.PgError{Code: "23505", ConstraintName: "idx_scary_entity_google_kg_id"}, true},
		{"pg other code", &pgconn.PgError{Code: "23503"}, false},
		{"sqlite message", errors.New("UNIQUE constraint failed: scary_entity.google_kg_id"), true},
		{"postgres message", errors.New(`ERROR: duplicate key value violates unique constraint "x"`), true},
		{"other", errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUniqueViolation(tc.err); got != tc.want {
				t.Fatalf("IsUniqueViolation(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestConstraintName(t *testing.T) {
	err := fmt.Errorf("wrap: %w", &pgconn.PgError{Code: "23505", ConstraintName: "idx_scary_entity_slug"})
	if got := ConstraintName(err); got != "idx_scary_entity_slug" {
		t.Fatalf("unexpected constraint %q", got)
	}
}
