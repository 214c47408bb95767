package utils

import (
	"strings"
	"testing"
)

func TestNewCallID_Format(t *testing.T) {
	id := NewCallID("apt-42", "doc-7", "Alice")

	if !ValidCallID(id) {
		t.Errorf("Generated call id %s does not validate", id)
	}
	if !strings.HasPrefix(id, "vc-") {
		t.Errorf("Call id should start with vc-, got %s", id)
	}
}

func TestNewCallID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := NewCallID("apt-42", "doc-7", "Alice")
		if seen[id] {
			// Same inputs within the same millisecond hash identically, which
			// is fine; a repeat across 50 iterations would mean the timestamp
			// never advanced.
			continue
		}
		seen[id] = true
	}
	if len(seen) < 2 {
		t.Error("Expected call ids to vary over time")
	}
}

func TestValidCallID(t *testing.T) {
	cases := []struct {
		id    string
		valid bool
	}{
		{"vc-abcdef123456-654321", true},
		{"vc-ABCDEF123456-654321", false},
		{"vc-abcdef12345-654321", false},
		{"vc-abcdef123456-65432", false},
		{"abcdef123456-654321", false},
		{"", false},
	}
	for _, c := range cases {
		if got := ValidCallID(c.id); got != c.valid {
			t.Errorf("ValidCallID(%q) = %v, want %v", c.id, got, c.valid)
		}
	}
}

func TestNewParticipantID(t *testing.T) {
	a := NewParticipantID()
	b := NewParticipantID()

	if a == "" {
		t.Fatal("Participant id should not be empty")
	}
	if a == b {
		t.Error("Consecutive participant ids should differ")
	}
	if !strings.Contains(a, "-") {
		t.Errorf("Participant id should be timestamp-suffix, got %s", a)
	}
}
