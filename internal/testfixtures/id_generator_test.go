package testfixtures

import (
	"testing"

	"github.com/google/uuid"
)

func TestIDGeneratorProducesSequentialIDs(t *testing.T) {
	gen := NewIDGenerator("office")

	first := gen.Next()
	second := gen.Next()

	if first != "office-1" || second != "office-2" {
		t.Fatalf("unexpected identifiers: %q, %q", first, second)
	}

	gen.Reset()
	if next := gen.Next(); next != "office-1" {
		t.Fatalf("expected office-1 after reset, got %q", next)
	}
}

func TestUUIDGeneratorProducesParseableIDs(t *testing.T) {
	gen := NewUUIDGenerator()
	for i := 0; i < 3; i++ {
		id := gen.Next()
		parsed, err := uuid.Parse(id)
		if err != nil {
			t.Fatalf("expected a UUID, got %q: %v", id, err)
		}
		if parsed.String() != id {
			t.Fatalf("expected canonical form, got %q", id)
		}
	}
}
