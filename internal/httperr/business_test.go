package httperr

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsBusinessUnwraps(t *testing.T) {
	err := fmt.Errorf("accept: %w", ErrBusiness("invalid_state"))

	if !IsBusiness(err, "invalid_state") {
		t.Fatal("expected wrapped business error to match")
	}
	if IsBusiness(err, "slot_in_past") {
		t.Fatal("unexpected match on other code")
	}

	code, ok := BusinessCode(err)
	if !ok || code != "invalid_state" {
		t.Fatalf("BusinessCode = %q, %v", code, ok)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	dup := fmt.Errorf("update: %w", &pgconn.PgError{Code: "23505"})
	if !IsUniqueViolation(dup) {
		t.Fatal("expected 23505 to be a unique violation")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatal("foreign key violation reported as unique")
	}
	if IsUniqueViolation(ErrBusiness("x")) {
		t.Fatal("business error reported as unique violation")
	}
}
