package app

import (
	"testing"

	"swagster-quiz-service/internal/domain"
)

func TestRegistryAddAndGet(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Add(newRoom("ABCDEF", "host", nil)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, ok := reg.Get("ABCDEF"); !ok {
		t.Fatalf("expected room present")
	}
	// Lookup is case-insensitive.
	if room, ok := reg.Get("abcdef"); !ok || room.ID() != "ABCDEF" {
		t.Fatalf("expected case-insensitive lookup, got ok=%v", ok)
	}
}

func TestRegistryRejectsDuplicateID(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Add(newRoom("room-1", "host", nil)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := reg.Add(newRoom("ROOM-1", "other", nil)); err != domain.ErrRoomExists {
		t.Fatalf("expected ErrRoomExists, got %v", err)
	}
}

func TestRegistryDelete(t *testing.T) {
	reg := NewRegistry()

	_ = reg.Add(newRoom("room-1", "host", nil))
	reg.Delete("Room-1")
	if _, ok := reg.Get("room-1"); ok {
		t.Fatalf("expected room removed")
	}
	if reg.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", reg.Len())
	}
}
