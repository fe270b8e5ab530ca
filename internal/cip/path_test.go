package cip

import "testing"

func TestLogicalPathRoundTrip(t *testing.T) {
	for c := uint16(0); c <= 255; c += 17 {
		for i := uint16(0); i <= 255; i += 23 {
			for a := uint16(0); a <= 255; a += 29 {
				raw := BuildLogicalPath(c, i, a)
				path := ParsePath(raw)
				gotC, ok := path.ClassID()
				if !ok || gotC != c {
					t.Fatalf("class mismatch for (%d,%d,%d): got %d ok=%v", c, i, a, gotC, ok)
				}
				gotI, ok := path.InstanceID()
				if !ok || gotI != i {
					t.Fatalf("instance mismatch for (%d,%d,%d): got %d ok=%v", c, i, a, gotI, ok)
				}
				gotA, ok := path.AttributeID()
				if !ok || gotA != a {
					t.Fatalf("attribute mismatch for (%d,%d,%d): got %d ok=%v", c, i, a, gotA, ok)
				}
			}
		}
	}
}

func TestSymbolicPathRoundTrip(t *testing.T) {
	names := []string{"A", "Sensor1A", "Tag_7", "X23456789012345678901234567890AB"}
	for _, name := range names {
		raw := BuildSymbolicPath(name)
		path := ParsePath(raw)
		got, ok := path.TagName()
		if !ok {
			t.Fatalf("expected a symbolic segment for %q", name)
		}
		if got != name {
			t.Fatalf("name mismatch: got %q want %q", got, name)
		}
	}
}

func TestSymbolicPathPadsOddLength(t *testing.T) {
	raw := BuildSymbolicPath("Tag_7")
	if len(raw)%2 != 0 {
		t.Fatalf("symbolic segment must be word-aligned, got length %d", len(raw))
	}
}

func TestParsePathTruncatedSegmentStopsSilently(t *testing.T) {
	// A logical 16-bit segment header with no value bytes following.
	raw := []byte{0x21}
	path := ParsePath(raw)
	if len(path) != 0 {
		t.Fatalf("expected no segments from a truncated path, got %d", len(path))
	}
}

func TestClassInstancePathHasNoAttribute(t *testing.T) {
	raw := BuildClassInstancePath(0x01, 0x01)
	path := ParsePath(raw)
	if _, ok := path.AttributeID(); ok {
		t.Fatal("class/instance path should carry no attribute segment")
	}
}
