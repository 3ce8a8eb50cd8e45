package products

import (
	"errors"
	"testing"

	"CERS-backend/internal/rental/apperr"
)

func TestParseBoolish(t *testing.T) {
	for _, s := range []string{"1", "true", "yes", "all", " TRUE "} {
		if !parseBoolish(s) {
			t.Errorf("parseBoolish(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "0", "false", "no"} {
		if parseBoolish(s) {
			t.Errorf("parseBoolish(%q) = true, want false", s)
		}
	}
}

func TestNormalizeCode(t *testing.T) {
	got, err := normalizeCode("  wc-std-01 ")
	if err != nil {
		t.Fatalf("normalizeCode: %v", err)
	}
	if got != "WC-STD-01" {
		t.Errorf("normalizeCode = %q, want WC-STD-01", got)
	}

	_, err = normalizeCode("   ")
	var api *apperr.APIError
	if !errors.As(err, &api) || api.Code != apperr.CodeInvalidArgument {
		t.Fatalf("err = %v, want INVALID_ARGUMENT", err)
	}
}
