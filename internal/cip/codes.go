// Package cip implements the Common Industrial Protocol message
// layer: path segment parsing, request/response framing, and the
// service and general-status code constants this server speaks.
package cip

// ServiceCode identifies a CIP service, with the response bit (0x80)
// always clear; EncodeResponse sets it on the wire.
type ServiceCode uint8

const (
	ServiceGetAttributeAll      ServiceCode = 0x01
	ServiceGetAttributeSingle   ServiceCode = 0x0E
	ServiceMultipleServicePacket ServiceCode = 0x0A
	ServiceReadTag              ServiceCode = 0x4C
	ServiceUnconnectedSend       ServiceCode = 0x52
)

// ResponseBit marks a CIP service byte as carrying a response.
const ResponseBit = 0x80

// Status is a one-byte CIP general status code.
type Status uint8

const (
	StatusSuccess                Status = 0x00
	StatusPathSegmentError       Status = 0x04
	StatusPathDestinationUnknown Status = 0x05
	StatusServiceNotSupported    Status = 0x08
	StatusNotEnoughData          Status = 0x13
	StatusAttributeNotSupported  Status = 0x14
	StatusObjectDoesNotExist     Status = 0x16
	StatusGeneralError           Status = 0x1E
)

// Well-known object classes this server implements.
const (
	ClassIdentity          uint16 = 0x0001
	ClassMessageRouter      uint16 = 0x0002
	ClassConnectionManager  uint16 = 0x0006
)
