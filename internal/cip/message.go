package cip

import "errors"

// ErrShortMessage is returned when a buffer is too small to contain a
// well-formed CIP request or response.
var ErrShortMessage = errors.New("cip: buffer too short")

// Request is a decoded CIP request message.
type Request struct {
	Service ServiceCode
	Path    Path
	RawPath []byte
	Data    []byte
}

// Response is a CIP response message, built with the response bit
// clear; EncodeResponse sets it.
type Response struct {
	Service ServiceCode
	Status  Status
	Data    []byte
}

// DecodeRequest parses {service, path_words, path, data}.
func DecodeRequest(data []byte) (Request, error) {
	if len(data) < 2 {
		return Request{}, ErrShortMessage
	}
	service := ServiceCode(data[0] & 0x7F)
	pathWords := int(data[1])
	pathLen := pathWords * 2
	if len(data) < 2+pathLen {
		return Request{}, ErrShortMessage
	}
	rawPath := data[2 : 2+pathLen]
	return Request{
		Service: service,
		Path:    ParsePath(rawPath),
		RawPath: rawPath,
		Data:    data[2+pathLen:],
	}, nil
}

// EncodeRequest serializes a request, computing path_words from
// len(RawPath)/2. RawPath is expected to already be word-aligned, as
// every path builder in this package guarantees.
func EncodeRequest(req Request) []byte {
	pathWords := len(req.RawPath) / 2
	out := make([]byte, 0, 2+len(req.RawPath)+len(req.Data))
	out = append(out, byte(req.Service)&0x7F, byte(pathWords))
	out = append(out, req.RawPath...)
	out = append(out, req.Data...)
	return out
}

// DecodeResponse parses {service|0x80, reserved, general_status,
// extended_status_words, data}.
func DecodeResponse(data []byte) (Response, error) {
	if len(data) < 4 {
		return Response{}, ErrShortMessage
	}
	return Response{
		Service: ServiceCode(data[0] &^ ResponseBit),
		Status:  Status(data[2]),
		Data:    data[4:],
	}, nil
}

// EncodeResponse serializes a response with the response bit set, a
// zero reserved byte, and zero extended status words (always the case
// in this server).
func EncodeResponse(resp Response) []byte {
	out := make([]byte, 4, 4+len(resp.Data))
	out[0] = byte(resp.Service) | ResponseBit
	out[1] = 0x00
	out[2] = byte(resp.Status)
	out[3] = 0x00
	out = append(out, resp.Data...)
	return out
}

// ErrorResponse is shorthand for building a status-only response with
// no data, the common shape for every rejection path.
func ErrorResponse(service ServiceCode, status Status) Response {
	return Response{Service: service, Status: status}
}
