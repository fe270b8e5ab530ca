package enip

import "encoding/binary"

// DetectByteOrder inspects the first four bytes of a candidate frame
// and decides whether it is framed big- or little-endian. It flips to
// little-endian only when that interpretation's command code is
// well-known and the big-endian interpretation's is not — a
// deliberately conservative probe, since most clients are conformant.
func DetectByteOrder(head []byte) ByteOrder {
	if len(head) < 4 {
		return BigEndian
	}
	cmdBE := binary.BigEndian.Uint16(head[0:2])
	cmdLE := binary.LittleEndian.Uint16(head[0:2])
	if isWellKnown(cmdLE) && !isWellKnown(cmdBE) {
		return LittleEndian
	}
	return BigEndian
}
