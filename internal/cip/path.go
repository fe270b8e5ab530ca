package cip

import "encoding/binary"

// LogicalType identifies which kind of logical segment a Segment
// carries, taken from bits 4-2 of the segment's leading byte.
type LogicalType uint8

const (
	LogicalClass LogicalType = iota
	LogicalInstance
	LogicalMember
	LogicalConnectionPoint
	LogicalAttribute
)

// SegmentKind distinguishes logical segments from ANSI extended
// symbolic segments.
type SegmentKind int

const (
	SegmentLogical SegmentKind = iota
	SegmentSymbolic
)

// Segment is one element of a decoded CIP path.
type Segment struct {
	Kind    SegmentKind
	Logical LogicalType
	Value   uint32
	Name    string
}

// Path is an ordered sequence of path segments.
type Path []Segment

const symbolicSegmentByte = 0x91

// ParsePath decodes a raw EPATH byte sequence into a list of segments,
// per the logical/symbolic grammar in use here. Unrecognized leading
// bytes are skipped one at a time as a best-effort resync; truncated
// trailing segments stop parsing silently rather than erroring.
func ParsePath(data []byte) Path {
	var path Path
	offset := 0
	for offset < len(data) {
		b := data[offset]
		switch {
		case b&0xE0 == 0x20:
			logicalType := LogicalType((b >> 2) & 0x07)
			sizeBit := b & 0x01
			if sizeBit == 0 {
				if offset+2 > len(data) {
					return path
				}
				path = append(path, Segment{Kind: SegmentLogical, Logical: logicalType, Value: uint32(data[offset+1])})
				offset += 2
			} else {
				if offset+4 > len(data) {
					return path
				}
				value := binary.LittleEndian.Uint16(data[offset+2 : offset+4])
				path = append(path, Segment{Kind: SegmentLogical, Logical: logicalType, Value: uint32(value)})
				offset += 4
			}
		case b == symbolicSegmentByte:
			if offset+2 > len(data) {
				return path
			}
			n := int(data[offset+1])
			end := offset + 2 + n
			if end > len(data) {
				return path
			}
			name := string(data[offset+2 : end])
			consumed := 2 + n
			if n&1 == 1 {
				consumed++
			}
			path = append(path, Segment{Kind: SegmentSymbolic, Name: name})
			offset += consumed
		default:
			offset++
		}
	}
	return path
}

func (p Path) logicalValue(t LogicalType) (uint16, bool) {
	for _, seg := range p {
		if seg.Kind == SegmentLogical && seg.Logical == t {
			return uint16(seg.Value), true
		}
	}
	return 0, false
}

// ClassID returns the path's class segment value, if present.
func (p Path) ClassID() (uint16, bool) { return p.logicalValue(LogicalClass) }

// InstanceID returns the path's instance segment value, if present.
func (p Path) InstanceID() (uint16, bool) { return p.logicalValue(LogicalInstance) }

// AttributeID returns the path's attribute segment value, if present.
func (p Path) AttributeID() (uint16, bool) { return p.logicalValue(LogicalAttribute) }

// TagName returns the name carried by the first symbolic segment, if
// any is present.
func (p Path) TagName() (string, bool) {
	for _, seg := range p {
		if seg.Kind == SegmentSymbolic {
			return seg.Name, true
		}
	}
	return "", false
}

func encodeLogicalSegment(t LogicalType, value uint16) []byte {
	base := byte(0x20 | (byte(t) << 2))
	if value <= 0xFF {
		return []byte{base, byte(value)}
	}
	buf := make([]byte, 4)
	buf[0] = base | 0x01
	buf[1] = 0x00
	binary.LittleEndian.PutUint16(buf[2:4], value)
	return buf
}

// BuildLogicalPath encodes a class/instance/attribute logical path,
// using 8-bit segments for values up to 255 and padded 16-bit segments
// for larger values.
func BuildLogicalPath(class, instance, attribute uint16) []byte {
	var out []byte
	out = append(out, encodeLogicalSegment(LogicalClass, class)...)
	out = append(out, encodeLogicalSegment(LogicalInstance, instance)...)
	out = append(out, encodeLogicalSegment(LogicalAttribute, attribute)...)
	return out
}

// BuildClassInstancePath encodes a class/instance logical path with no
// trailing attribute segment, as used by Get_Attribute_All requests.
func BuildClassInstancePath(class, instance uint16) []byte {
	var out []byte
	out = append(out, encodeLogicalSegment(LogicalClass, class)...)
	out = append(out, encodeLogicalSegment(LogicalInstance, instance)...)
	return out
}

// BuildSymbolicPath encodes name as a single ANSI extended symbolic
// segment, word-padding it when its length is odd.
func BuildSymbolicPath(name string) []byte {
	n := len(name)
	out := make([]byte, 0, 2+n+1)
	out = append(out, symbolicSegmentByte, byte(n))
	out = append(out, name...)
	if n&1 == 1 {
		out = append(out, 0x00)
	}
	return out
}
