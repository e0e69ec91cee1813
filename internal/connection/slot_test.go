package connection

import (
	"errors"
	"testing"

	"github.com/mesh-intelligence/tableland/pkg/types"
)

func TestSlot(t *testing.T) {
	var s slot[string]
	if _, err := s.get(); !errors.Is(err, types.ErrNotReady) {
		t.Fatalf("unset slot: got %v, want ErrNotReady", err)
	}

	cause := errors.New("boom")
	s.absent("validator", "no base url", cause)
	_, err := s.get()
	if !errors.Is(err, types.ErrMissingConfig) || !errors.Is(err, cause) {
		t.Fatalf("absent slot: got %v", err)
	}

	s.set("ok")
	v, err := s.get()
	if err != nil || v != "ok" {
		t.Fatalf("set slot: got %q, %v", v, err)
	}
}
