package tagstore

import (
	"testing"
	"time"
)

func TestResolveByName(t *testing.T) {
	s := New(10, 1)
	tag, ok := s.Resolve("Sensor1A")
	if !ok {
		t.Fatal("expected to resolve Sensor1A by name")
	}
	if tag.Name != "Sensor1A" {
		t.Fatalf("resolved wrong tag: %s", tag.Name)
	}
}

func TestResolveByPositionalAddress(t *testing.T) {
	s := New(10, 1)
	tag, ok := s.Resolve("Tag_7")
	if !ok {
		t.Fatal("expected to resolve Tag_7 by positional address")
	}
	if tag.Name != "Sensor7A" {
		t.Fatalf("expected the 7th tag, got %s", tag.Name)
	}
}

func TestResolveByNumericFallback(t *testing.T) {
	s := New(10, 1)
	tag, ok := s.Resolve("SomeAlias3")
	if !ok {
		t.Fatal("expected numeric fallback to resolve to the 3rd tag")
	}
	if tag != s.tags[2] {
		t.Fatalf("expected the 3rd tag")
	}
}

func TestResolveMiss(t *testing.T) {
	s := New(10, 1)
	if _, ok := s.Resolve("NoSuchTag"); ok {
		t.Fatal("expected no match")
	}
	if _, ok := s.Resolve("Tag_999"); ok {
		t.Fatal("expected out-of-range positional address to miss")
	}
}

func TestReadValueWithinRange(t *testing.T) {
	s := New(1, 42)
	tag := s.tags[0]
	for i := 0; i < 1000; i++ {
		v, readAt := s.Read(tag, time.Now())
		if v < MinValue || v > MaxValue {
			t.Fatalf("value %d out of range [%d, %d]", v, MinValue, MaxValue)
		}
		if readAt.IsZero() {
			t.Fatal("expected a non-zero read timestamp")
		}
	}
}

func TestReadTimestampDoesNotMoveBackwards(t *testing.T) {
	s := New(1, 7)
	tag := s.tags[0]
	_, t1 := s.Read(tag, time.Now())
	_, t2 := s.Read(tag, time.Now())
	if t2.Before(t1) {
		t.Fatal("last-read timestamp should not move backwards")
	}
}
