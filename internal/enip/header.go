package enip

import (
	"errors"
	"fmt"
)

// ErrShortHeader is returned when a buffer is too small to contain a
// full 24-byte encapsulation header.
var ErrShortHeader = errors.New("enip: buffer shorter than header size")

// ErrLengthMismatch is returned in strict mode when the header's
// length field does not equal the number of payload bytes present.
var ErrLengthMismatch = errors.New("enip: header length does not match payload size")

// Header is the 24-byte EtherNet/IP encapsulation header.
type Header struct {
	Command       Command
	Length        uint16
	SessionHandle uint32
	Status        Status
	SenderContext [8]byte
	Options       uint32
}

// Packet is a full encapsulation frame: header plus payload.
type Packet struct {
	Header  Header
	Payload []byte
}

// Decode parses a complete frame (header + payload) using order for
// all multi-byte header and length fields. The caller is expected to
// have already sliced data to exactly one frame's length, as the
// Reassembler guarantees; strict mode additionally verifies that the
// header's declared length matches len(payload).
func Decode(data []byte, order ByteOrder, strict bool) (Packet, error) {
	if len(data) < HeaderSize {
		return Packet{}, ErrShortHeader
	}
	bo := order.Binary()
	h := Header{
		Command:       Command(bo.Uint16(data[0:2])),
		Length:        bo.Uint16(data[2:4]),
		SessionHandle: bo.Uint32(data[4:8]),
		Status:        Status(bo.Uint32(data[8:12])),
		Options:       bo.Uint32(data[20:24]),
	}
	copy(h.SenderContext[:], data[12:20])

	payload := data[HeaderSize:]
	if strict && int(h.Length) != len(payload) {
		return Packet{}, fmt.Errorf("%w: declared %d, have %d", ErrLengthMismatch, h.Length, len(payload))
	}
	if int(h.Length) < len(payload) {
		payload = payload[:h.Length]
	}
	return Packet{Header: h, Payload: payload}, nil
}

// Encode writes the packet's header and payload in order, setting
// Length from len(payload) and Options to 0 as required by the
// response construction contract.
func Encode(p Packet, order ByteOrder) []byte {
	bo := order.Binary()
	out := make([]byte, HeaderSize+len(p.Payload))
	bo.PutUint16(out[0:2], uint16(p.Header.Command))
	bo.PutUint16(out[2:4], uint16(len(p.Payload)))
	bo.PutUint32(out[4:8], p.Header.SessionHandle)
	bo.PutUint32(out[8:12], uint32(p.Header.Status))
	copy(out[12:20], p.Header.SenderContext[:])
	bo.PutUint32(out[20:24], 0)
	copy(out[HeaderSize:], p.Payload)
	return out
}

// Reply builds a response packet that echoes the request's command,
// sender context and (unless overridden) session handle, per the
// encapsulation dispatcher's response construction contract.
func Reply(req Packet, status Status, payload []byte) Packet {
	return Packet{
		Header: Header{
			Command:       req.Header.Command,
			SessionHandle: req.Header.SessionHandle,
			Status:        status,
			SenderContext: req.Header.SenderContext,
			Options:       0,
		},
		Payload: payload,
	}
}
