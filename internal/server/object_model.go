package server

import (
	"encoding/binary"

	"github.com/BurakDalkiran34/simulator-ethernetip-server/internal/cip"
)

// handleGetAttributeAll implements service 0x01 for the Identity
// object only; every other class is not supported, per §4.6.
func (s *Server) handleGetAttributeAll(req cip.Request) cip.Response {
	class, ok := req.Path.ClassID()
	if !ok {
		return cip.ErrorResponse(req.Service, cip.StatusPathSegmentError)
	}
	if class != cip.ClassIdentity {
		return cip.ErrorResponse(req.Service, cip.StatusServiceNotSupported)
	}

	data := make([]byte, 0, 16)
	buf2 := make([]byte, 2)
	buf4 := make([]byte, 4)

	binary.LittleEndian.PutUint16(buf2, s.identity.VendorID)
	data = append(data, buf2...)
	binary.LittleEndian.PutUint16(buf2, s.identity.DeviceType)
	data = append(data, buf2...)
	binary.LittleEndian.PutUint16(buf2, uint16(s.identity.ProductCode))
	data = append(data, buf2...)
	data = append(data, s.identity.RevisionMajor, s.identity.RevisionMinor)
	binary.LittleEndian.PutUint16(buf2, 0)
	data = append(data, buf2...)
	binary.LittleEndian.PutUint32(buf4, s.identity.Serial)
	data = append(data, buf4...)
	data = append(data, encodeShortString(s.identity.ProductName)...)

	return cip.Response{Service: req.Service, Status: cip.StatusSuccess, Data: data}
}

// handleGetAttributeSingle implements service 0x0E for Identity,
// Message Router, and Connection Manager, falling back to a symbolic
// tag read for unrecognized classes (some clients phrase tag reads as
// Get_Attribute_Single with a symbolic path), per §4.7.
func (s *Server) handleGetAttributeSingle(req cip.Request) cip.Response {
	class, hasClass := req.Path.ClassID()
	if !hasClass {
		return cip.ErrorResponse(req.Service, cip.StatusPathSegmentError)
	}

	switch class {
	case cip.ClassIdentity:
		return s.identityAttribute(req)
	case cip.ClassMessageRouter:
		return s.messageRouterAttribute(req)
	case cip.ClassConnectionManager:
		return s.connectionManagerAttribute(req)
	default:
		if resp, ok := s.tryTagRead(req); ok {
			return resp
		}
		return cip.ErrorResponse(req.Service, cip.StatusObjectDoesNotExist)
	}
}

func (s *Server) identityAttribute(req cip.Request) cip.Response {
	instance, ok := req.Path.InstanceID()
	if !ok || (instance != 0 && instance != 1) {
		return cip.ErrorResponse(req.Service, cip.StatusObjectDoesNotExist)
	}
	attribute, ok := req.Path.AttributeID()
	if !ok {
		return cip.ErrorResponse(req.Service, cip.StatusAttributeNotSupported)
	}

	buf2 := make([]byte, 2)
	buf4 := make([]byte, 4)
	switch attribute {
	case 1:
		binary.LittleEndian.PutUint16(buf2, s.identity.VendorID)
		return cip.Response{Service: req.Service, Status: cip.StatusSuccess, Data: buf2}
	case 2:
		binary.LittleEndian.PutUint16(buf2, s.identity.DeviceType)
		return cip.Response{Service: req.Service, Status: cip.StatusSuccess, Data: buf2}
	case 3:
		binary.LittleEndian.PutUint16(buf2, uint16(s.identity.ProductCode))
		return cip.Response{Service: req.Service, Status: cip.StatusSuccess, Data: buf2}
	case 4:
		return cip.Response{Service: req.Service, Status: cip.StatusSuccess, Data: []byte{1, 0}}
	case 5:
		binary.LittleEndian.PutUint16(buf2, 0x0001)
		return cip.Response{Service: req.Service, Status: cip.StatusSuccess, Data: buf2}
	case 6:
		binary.LittleEndian.PutUint32(buf4, 0)
		return cip.Response{Service: req.Service, Status: cip.StatusSuccess, Data: buf4}
	case 7:
		return cip.Response{Service: req.Service, Status: cip.StatusSuccess, Data: encodeShortString(s.identity.ProductName)}
	default:
		return cip.ErrorResponse(req.Service, cip.StatusAttributeNotSupported)
	}
}

func (s *Server) messageRouterAttribute(req cip.Request) cip.Response {
	instance, ok := req.Path.InstanceID()
	if !ok || (instance != 0 && instance != 1) {
		return cip.ErrorResponse(req.Service, cip.StatusObjectDoesNotExist)
	}
	attribute, ok := req.Path.AttributeID()
	if !ok {
		return cip.ErrorResponse(req.Service, cip.StatusAttributeNotSupported)
	}

	buf2 := make([]byte, 2)
	switch attribute {
	case 1:
		binary.LittleEndian.PutUint16(buf2, 3)
		return cip.Response{Service: req.Service, Status: cip.StatusSuccess, Data: buf2}
	case 2, 3:
		binary.LittleEndian.PutUint16(buf2, 0)
		return cip.Response{Service: req.Service, Status: cip.StatusSuccess, Data: buf2}
	default:
		return cip.ErrorResponse(req.Service, cip.StatusAttributeNotSupported)
	}
}

func (s *Server) connectionManagerAttribute(req cip.Request) cip.Response {
	instance, ok := req.Path.InstanceID()
	if !ok || (instance != 0 && instance != 1) {
		return cip.ErrorResponse(req.Service, cip.StatusObjectDoesNotExist)
	}
	attribute, ok := req.Path.AttributeID()
	if !ok {
		return cip.ErrorResponse(req.Service, cip.StatusAttributeNotSupported)
	}

	buf2 := make([]byte, 2)
	switch attribute {
	case 1:
		binary.LittleEndian.PutUint16(buf2, 128)
		return cip.Response{Service: req.Service, Status: cip.StatusSuccess, Data: buf2}
	case 2:
		binary.LittleEndian.PutUint16(buf2, uint16(s.SessionCount()))
		return cip.Response{Service: req.Service, Status: cip.StatusSuccess, Data: buf2}
	default:
		return cip.ErrorResponse(req.Service, cip.StatusAttributeNotSupported)
	}
}

// encodeShortString writes a CIP SHORT_STRING: a one-byte length
// prefix followed by ASCII bytes, truncated to 255 (and, by the
// caller's own contract, never handed a name over 32 bytes long).
func encodeShortString(value string) []byte {
	data := []byte(value)
	if len(data) > 255 {
		data = data[:255]
	}
	out := make([]byte, 1+len(data))
	out[0] = byte(len(data))
	copy(out[1:], data)
	return out
}
