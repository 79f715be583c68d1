package idgen

import (
	"regexp"
	"testing"

	"github.com/alfredjeanlab/folio/internal/model"
)

func TestCode_IsValidAccessCode(t *testing.T) {
	pattern := regexp.MustCompile(`^[a-z0-9]{6}$`)
	for i := 0; i < 100; i++ {
		code, err := Code()
		if err != nil {
			t.Fatalf("Code() error on iteration %d: %v", i, err)
		}
		if !pattern.MatchString(code) {
			t.Fatalf("Code() = %q, does not match expected charset pattern", code)
		}
		if !model.IsValidCode(code) {
			t.Fatalf("Code() = %q, rejected by model.IsValidCode", code)
		}
		if code != model.NormalizeCode(code) {
			t.Fatalf("Code() = %q, not in normalized form", code)
		}
	}
}

func TestSessionID_Length(t *testing.T) {
	id, err := SessionID()
	if err != nil {
		t.Fatalf("SessionID() error: %v", err)
	}
	if len(id) != SessionLength {
		t.Errorf("SessionID() length = %d, want %d (id=%q)", len(id), SessionLength, id)
	}
}

func TestSessionID_Uniqueness(t *testing.T) {
	const count = 10_000
	seen := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		id, err := SessionID()
		if err != nil {
			t.Fatalf("SessionID() error on iteration %d: %v", i, err)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate ID after %d generations: %q", i, id)
		}
		seen[id] = struct{}{}
	}
}
