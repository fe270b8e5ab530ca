package session

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestRegistry() *Registry {
	return NewRegistry(zerolog.Nop())
}

func TestCreateAllocatesStartingAtOne(t *testing.T) {
	r := newTestRegistry()
	now := time.Now()
	s := r.Create(now)
	if s.Handle != 1 {
		t.Fatalf("expected first handle to be 1, got %d", s.Handle)
	}
	s2 := r.Create(now)
	if s2.Handle != 2 {
		t.Fatalf("expected second handle to be 2, got %d", s2.Handle)
	}
}

func TestHasTouchRemove(t *testing.T) {
	r := newTestRegistry()
	now := time.Now()
	s := r.Create(now)

	if !r.Has(s.Handle) {
		t.Fatal("expected session to be live")
	}
	later := now.Add(time.Second)
	if !r.Touch(s.Handle, later) {
		t.Fatal("touch should succeed on a live session")
	}
	if r.Touch(999, later) {
		t.Fatal("touch should fail on an unknown handle")
	}
	r.Remove(s.Handle)
	if r.Has(s.Handle) {
		t.Fatal("expected session to be gone after remove")
	}
}

func TestSweepRemovesOnlyIdleSessions(t *testing.T) {
	r := newTestRegistry()
	base := time.Now()
	fresh := r.Create(base)
	stale := r.Create(base)
	r.Touch(fresh.Handle, base.Add(250*time.Second))

	removed := r.Sweep(base.Add(300*time.Second), 300*time.Second)
	if removed != 1 {
		t.Fatalf("expected exactly one idle session removed, got %d", removed)
	}
	if !r.Has(fresh.Handle) {
		t.Fatal("freshly touched session should survive the sweep")
	}
	if r.Has(stale.Handle) {
		t.Fatal("stale session should have been swept")
	}
}

func TestCreateSkipsCollidingHandleOnWraparound(t *testing.T) {
	r := newTestRegistry()
	now := time.Now()
	r.next = 0xFFFFFFFF
	first := r.Create(now)
	if first.Handle != 0xFFFFFFFF {
		t.Fatalf("expected handle 0xFFFFFFFF, got %#x", first.Handle)
	}
	second := r.Create(now)
	if second.Handle != 1 {
		t.Fatalf("expected wraparound to skip 0 and land on 1, got %#x", second.Handle)
	}
}
