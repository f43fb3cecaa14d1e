package edgegate

import (
	"strconv"
	"strings"
	"testing"
)

func TestNewRequestID_HasEpochMillisPrefix(t *testing.T) {
	id := NewRequestID()

	millis, _, ok := strings.Cut(id, "-")
	if !ok {
		t.Fatalf("expected <millis>-<suffix> shape, got %q", id)
	}
	n, err := strconv.ParseInt(millis, 10, 64)
	if err != nil || n <= 0 {
		t.Fatalf("expected numeric epoch-millis prefix, got %q", millis)
	}
}

func TestNewRequestID_Distinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewRequestID()
		if seen[id] {
			t.Fatalf("duplicate id generated: %q", id)
		}
		seen[id] = true
	}
}
