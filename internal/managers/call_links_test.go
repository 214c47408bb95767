package managers

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"signaling/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"
)

func setupLinkStore(t *testing.T) (*miniredis.Miniredis, *CallLinkStore) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	store := NewCallLinkStore(mr.Addr(), "http://localhost:5173", time.Hour, zap.NewNop())
	t.Cleanup(func() { store.Close() })
	return mr, store
}

func TestCallLinkStore_Create(t *testing.T) {
	_, store := setupLinkStore(t)

	link, err := store.Create(context.Background(), "apt-42", "doc-7", "Alice")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if !utils.ValidCallID(link.CallID) {
		t.Errorf("Call ID %s does not match the issued format", link.CallID)
	}
	if !strings.HasPrefix(link.Link, "http://localhost:5173/video-call/vc-") {
		t.Errorf("Unexpected link format: %s", link.Link)
	}
	if link.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestCallLinkStore_GetRoundTrip(t *testing.T) {
	_, store := setupLinkStore(t)

	created, err := store.Create(context.Background(), "apt-42", "doc-7", "Alice")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.Get(context.Background(), created.CallID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if got.AppointmentID != "apt-42" {
		t.Errorf("Expected appointment apt-42, got %s", got.AppointmentID)
	}
	if got.DoctorID != "doc-7" {
		t.Errorf("Expected doctor doc-7, got %s", got.DoctorID)
	}
	if got.PatientName != "Alice" {
		t.Errorf("Expected patient Alice, got %s", got.PatientName)
	}
	if got.Link != created.Link {
		t.Errorf("Expected link %s, got %s", created.Link, got.Link)
	}
}

func TestCallLinkStore_GetUnknownID(t *testing.T) {
	_, store := setupLinkStore(t)

	_, err := store.Get(context.Background(), "vc-abcdefabcdef-123456")
	if !errors.Is(err, ErrLinkNotFound) {
		t.Errorf("Expected ErrLinkNotFound, got %v", err)
	}

	// Malformed ids never touch Redis.
	_, err = store.Get(context.Background(), "not-a-call-id")
	if !errors.Is(err, ErrLinkNotFound) {
		t.Errorf("Expected ErrLinkNotFound for malformed id, got %v", err)
	}
}

func TestCallLinkStore_LinkExpires(t *testing.T) {
	mr, store := setupLinkStore(t)

	created, err := store.Create(context.Background(), "apt-42", "doc-7", "Alice")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	mr.FastForward(2 * time.Hour)

	_, err = store.Get(context.Background(), created.CallID)
	if !errors.Is(err, ErrLinkNotFound) {
		t.Errorf("Expected ErrLinkNotFound after TTL, got %v", err)
	}
}
