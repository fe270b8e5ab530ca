package enip

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, order := range []ByteOrder{BigEndian, LittleEndian} {
		p := Packet{
			Header: Header{
				Command:       CommandSendRRData,
				SessionHandle: 0x01020304,
				Status:        StatusSuccess,
				SenderContext: [8]byte{1, 2, 3, 4, 5, 6, 7, 8},
				Options:       0,
			},
			Payload: []byte{0xAA, 0xBB, 0xCC, 0xDD},
		}
		encoded := Encode(p, order)
		if len(encoded) != HeaderSize+len(p.Payload) {
			t.Fatalf("order %v: unexpected frame length %d", order, len(encoded))
		}
		decoded, err := Decode(encoded, order, true)
		if err != nil {
			t.Fatalf("order %v: decode failed: %v", order, err)
		}
		if decoded.Header.Command != p.Header.Command ||
			decoded.Header.SessionHandle != p.Header.SessionHandle ||
			decoded.Header.Status != p.Header.Status ||
			decoded.Header.SenderContext != p.Header.SenderContext ||
			decoded.Header.Options != 0 {
			t.Fatalf("order %v: header mismatch: %+v", order, decoded.Header)
		}
		if !bytes.Equal(decoded.Payload, p.Payload) {
			t.Fatalf("order %v: payload mismatch: %x != %x", order, decoded.Payload, p.Payload)
		}
	}
}

func TestDecodeShortHeader(t *testing.T) {
	_, err := Decode(make([]byte, 10), BigEndian, true)
	if err != ErrShortHeader {
		t.Fatalf("expected ErrShortHeader, got %v", err)
	}
}

func TestDecodeStrictLengthMismatch(t *testing.T) {
	p := Packet{Header: Header{Command: CommandRegisterSession}, Payload: []byte{1, 2, 3, 4}}
	encoded := Encode(p, BigEndian)
	// Corrupt the declared length so it no longer matches the payload.
	encoded[3] = 0xFF
	if _, err := Decode(encoded, BigEndian, true); err == nil {
		t.Fatal("expected length mismatch error in strict mode")
	}
	if _, err := Decode(encoded, BigEndian, false); err != nil {
		t.Fatalf("lenient decode should not fail: %v", err)
	}
}

func TestReplyEchoesRequestFraming(t *testing.T) {
	req := Packet{Header: Header{
		Command:       CommandSendRRData,
		SessionHandle: 42,
		SenderContext: [8]byte{9, 9, 9, 9, 9, 9, 9, 9},
	}}
	resp := Reply(req, StatusInvalidLength, nil)
	if resp.Header.Command != req.Header.Command {
		t.Errorf("command not echoed")
	}
	if resp.Header.SenderContext != req.Header.SenderContext {
		t.Errorf("sender context not echoed")
	}
	if resp.Header.SessionHandle != req.Header.SessionHandle {
		t.Errorf("session handle not echoed")
	}
	if resp.Header.Options != 0 {
		t.Errorf("options must be zero, got %d", resp.Header.Options)
	}
}

func TestDetectByteOrder(t *testing.T) {
	cases := []struct {
		name string
		head []byte
		want ByteOrder
	}{
		{"big-endian register session", []byte{0x00, 0x65, 0x00, 0x00}, BigEndian},
		{"little-endian register session", []byte{0x65, 0x00, 0x04, 0x00}, LittleEndian},
		{"ambiguous defaults big", []byte{0x12, 0x34, 0x00, 0x00}, BigEndian},
	}
	for _, tc := range cases {
		if got := DetectByteOrder(tc.head); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
