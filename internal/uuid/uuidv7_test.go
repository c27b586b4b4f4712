package uuid

import (
	"testing"
	"time"

	googleuuid "github.com/google/uuid"
)

func TestNew(t *testing.T) {
	id := New()
	if !IsValid(id) {
		t.Fatalf("expected valid uuid, got %q", id)
	}
	if v := googleuuid.MustParse(id).Version(); v != 7 {
		t.Errorf("expected version 7, got %d", v)
	}
}

func TestNew_SortsByCreation(t *testing.T) {
	first := New()
	time.Sleep(2 * time.Millisecond)
	second := New()

	if first >= second {
		t.Errorf("expected %s < %s", first, second)
	}
}

func TestParse(t *testing.T) {
	got, err := Parse("0190A5D2-7C3B-7A11-8E4F-1234567890AB")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "0190a5d2-7c3b-7a11-8e4f-1234567890ab" {
		t.Errorf("expected lowercase form, got %s", got)
	}

	if _, err := Parse("not-a-uuid"); err == nil {
		t.Error("expected error for invalid uuid")
	}
}
