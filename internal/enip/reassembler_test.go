package enip

import "testing"

func TestReassemblerSingleFrame(t *testing.T) {
	p := Packet{Header: Header{Command: CommandListIdentity}, Payload: []byte{1, 2, 3}}
	wire := Encode(p, BigEndian)

	var r Reassembler
	r.Feed(wire)
	frames, dropped := r.Drain()
	if dropped != 0 {
		t.Fatalf("unexpected drop: %d", dropped)
	}
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if frames[0].Order != BigEndian {
		t.Fatalf("expected big endian frame")
	}
}

func TestReassemblerPartialThenComplete(t *testing.T) {
	p := Packet{Header: Header{Command: CommandRegisterSession}, Payload: []byte{1, 2, 3, 4}}
	wire := Encode(p, BigEndian)

	var r Reassembler
	r.Feed(wire[:10])
	frames, _ := r.Drain()
	if len(frames) != 0 {
		t.Fatalf("expected no frames yet, got %d", len(frames))
	}
	r.Feed(wire[10:])
	frames, _ = r.Drain()
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame after completing the buffer, got %d", len(frames))
	}
}

func TestReassemblerMultipleFramesBackToBack(t *testing.T) {
	p1 := Encode(Packet{Header: Header{Command: CommandListServices}}, BigEndian)
	p2 := Encode(Packet{Header: Header{Command: CommandListIdentity}}, BigEndian)

	var r Reassembler
	r.Feed(append(append([]byte{}, p1...), p2...))
	frames, _ := r.Drain()
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
}

func TestReassemblerDropsUnrecoverableLength(t *testing.T) {
	var r Reassembler
	bad := make([]byte, HeaderSize)
	// Big-endian length field at offset 2 set to 0xFFFF pushes the
	// frame length over MaxFrameLength.
	bad[2] = 0xFF
	bad[3] = 0xFF
	r.Feed(bad)
	frames, dropped := r.Drain()
	if len(frames) != 0 {
		t.Fatalf("expected no frames from an unrecoverable buffer")
	}
	if dropped != HeaderSize {
		t.Fatalf("expected the whole buffer dropped, got %d", dropped)
	}
	if r.Pending() != 0 {
		t.Fatalf("expected buffer cleared after drop, got %d pending", r.Pending())
	}
}

func TestReassemblerPerPacketEndiannessProbe(t *testing.T) {
	big := Encode(Packet{Header: Header{Command: CommandListServices}}, BigEndian)
	little := Encode(Packet{Header: Header{Command: CommandRegisterSession}}, LittleEndian)

	var r Reassembler
	r.Feed(append(append([]byte{}, big...), little...))
	frames, _ := r.Drain()
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[0].Order != BigEndian {
		t.Errorf("first frame should probe as big endian")
	}
	if frames[1].Order != LittleEndian {
		t.Errorf("second frame should probe as little endian")
	}
}
