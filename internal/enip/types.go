// Package enip implements the EtherNet/IP encapsulation layer: the
// 24-byte header, the Common Packet Format item list carried inside
// SendRRData, the per-connection endianness probe, and the stream
// reassembler that turns a raw TCP byte stream into whole frames.
package enip

import "encoding/binary"

// ByteOrder names the wire byte order a connection has been detected
// to use for encapsulation-layer integers. It is distinct from CIP's
// own byte order, which is always little-endian regardless of this
// value.
type ByteOrder int

const (
	BigEndian ByteOrder = iota
	LittleEndian
)

// Binary returns the standard-library byte order this value selects,
// for callers outside this package that need to read or write
// encapsulation-payload integers (e.g. REGISTER_SESSION's
// protocol_version, LIST_SERVICES' fields) in the connection's
// detected order.
func (o ByteOrder) Binary() binary.ByteOrder {
	if o == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (o ByteOrder) String() string {
	if o == LittleEndian {
		return "little"
	}
	return "big"
}

// Command identifies an encapsulation command.
type Command uint16

const (
	CommandNOP               Command = 0x0000
	CommandListServices      Command = 0x0004
	CommandListIdentity      Command = 0x0063
	CommandListInterfaces    Command = 0x0064
	CommandRegisterSession   Command = 0x0065
	CommandUnregisterSession Command = 0x0066
	CommandSendRRData        Command = 0x006F
	CommandSendUnitData      Command = 0x0070
)

// wellKnownCommands is the set of command codes the endianness probe
// recognizes when deciding whether a frame is little-endian.
var wellKnownCommands = map[Command]bool{
	CommandListServices:      true,
	CommandListIdentity:      true,
	CommandRegisterSession:   true,
	CommandUnregisterSession: true,
	CommandSendRRData:        true,
}

func isWellKnown(cmd uint16) bool {
	return wellKnownCommands[Command(cmd)]
}

// Status is an encapsulation-level status code, carried in the header's
// status field.
type Status uint32

const (
	StatusSuccess              Status = 0x00000000
	StatusInvalidCommand       Status = 0x00000001
	StatusInsufficientMemory   Status = 0x00000002
	StatusIncorrectData        Status = 0x00000003
	StatusInvalidSessionHandle Status = 0x00000065
	StatusInvalidLength        Status = 0x00000069
	StatusUnsupportedProtocol  Status = 0x0000006A
)

// HeaderSize is the fixed size of the encapsulation header in bytes.
const HeaderSize = 24

// MaxFrameLength is the largest total frame (header + payload) the
// reassembler will accept before treating the buffer as unrecoverable.
const MaxFrameLength = 65535
