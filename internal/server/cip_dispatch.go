package server

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/rs/zerolog"

	"github.com/BurakDalkiran34/simulator-ethernetip-server/internal/cip"
	"github.com/BurakDalkiran34/simulator-ethernetip-server/internal/enip"
)

// maxRecursionDepth bounds Unconnected Send / Multiple Service Packet
// nesting to prevent pathological recursion.
const maxRecursionDepth = 4

// nowFunc is indirected only so tests could swap it if ever needed;
// today it is always time.Now.
var nowFunc = time.Now

func (s *Server) handleSendRRData(ctx context.Context, cs *connState, pkt enip.Packet, order enip.ByteOrder, logger zerolog.Logger) enip.Packet {
	if !s.sessions.Has(pkt.Header.SessionHandle) {
		return enip.Reply(pkt, enip.StatusInvalidSessionHandle, nil)
	}
	s.sessions.Touch(pkt.Header.SessionHandle, nowFunc())

	cpf, err := enip.DecodeCPF(pkt.Payload, order)
	if err != nil {
		return enip.Reply(pkt, enip.StatusInvalidLength, nil)
	}
	cipReq, ok := cpf.UnconnectedData()
	if !ok {
		return enip.Reply(pkt, enip.StatusInvalidLength, nil)
	}

	cipResp := s.dispatchCIP(ctx, cipReq, 0, logger)

	respCPF := enip.UnconnectedRequestCPF(cpf.InterfaceHandle, cpf.Timeout, cipResp)
	respPayload := enip.EncodeCPF(respCPF, order)

	// The outer encapsulation status stays SUCCESS even when the
	// embedded CIP dispatch produced a non-zero general status.
	return enip.Reply(pkt, enip.StatusSuccess, respPayload)
}

// dispatchCIP routes a decoded CIP request by service code, with
// Unconnected Send and Multiple Service Packet recursing back into
// this function for their embedded sub-requests. Parse failures
// inside an embedded request never fail the outer envelope: they
// produce a per-child CIP error response instead.
func (s *Server) dispatchCIP(ctx context.Context, raw []byte, depth int, logger zerolog.Logger) []byte {
	req, err := cip.DecodeRequest(raw)
	if err != nil {
		return cip.EncodeResponse(cip.ErrorResponse(0, cip.StatusNotEnoughData))
	}

	switch req.Service {
	case cip.ServiceGetAttributeAll:
		return cip.EncodeResponse(s.handleGetAttributeAll(req))
	case cip.ServiceGetAttributeSingle:
		return cip.EncodeResponse(s.handleGetAttributeSingle(req))
	case cip.ServiceReadTag:
		return cip.EncodeResponse(s.handleReadTag(req))
	case cip.ServiceMultipleServicePacket:
		return s.handleMultipleServicePacket(ctx, req, depth, logger)
	case cip.ServiceUnconnectedSend:
		return s.handleUnconnectedSend(ctx, req, depth, logger)
	default:
		return cip.EncodeResponse(cip.ErrorResponse(req.Service, cip.StatusServiceNotSupported))
	}
}

// handleUnconnectedSend decodes the embedded CIP request, recurses,
// and returns the inner response verbatim as the outer response with
// no re-wrapping, per the documented (unwrapped) behavior.
func (s *Server) handleUnconnectedSend(ctx context.Context, req cip.Request, depth int, logger zerolog.Logger) []byte {
	if depth >= maxRecursionDepth {
		return cip.EncodeResponse(cip.ErrorResponse(req.Service, cip.StatusGeneralError))
	}
	data := req.Data
	if len(data) < 4 {
		return cip.EncodeResponse(cip.ErrorResponse(req.Service, cip.StatusNotEnoughData))
	}
	embeddedSize := int(binary.LittleEndian.Uint16(data[2:4]))
	offset := 4
	if len(data) < offset+embeddedSize {
		return cip.EncodeResponse(cip.ErrorResponse(req.Service, cip.StatusNotEnoughData))
	}
	embedded := data[offset : offset+embeddedSize]

	return s.dispatchCIP(ctx, embedded, depth+1, logger)
}

// handleMultipleServicePacket dispatches each independent sub-request
// and rebuilds a response offset table that stays consistent even
// when individual sub-requests fail to decode, so the table's offsets
// always point exactly at the start of each response body.
func (s *Server) handleMultipleServicePacket(ctx context.Context, req cip.Request, depth int, logger zerolog.Logger) []byte {
	if depth >= maxRecursionDepth {
		return cip.EncodeResponse(cip.ErrorResponse(req.Service, cip.StatusGeneralError))
	}
	data := req.Data
	if len(data) < 2 {
		return cip.EncodeResponse(cip.ErrorResponse(req.Service, cip.StatusNotEnoughData))
	}
	count := int(binary.LittleEndian.Uint16(data[0:2]))
	offsetsStart := 2
	if count < 0 || len(data) < offsetsStart+2*count {
		return cip.EncodeResponse(cip.ErrorResponse(req.Service, cip.StatusNotEnoughData))
	}

	offsets := make([]int, count)
	for i := 0; i < count; i++ {
		offsets[i] = int(binary.LittleEndian.Uint16(data[offsetsStart+2*i : offsetsStart+2*i+2]))
	}

	bodies := make([][]byte, count)
	for i := 0; i < count; i++ {
		start := offsets[i]
		end := len(data)
		if i+1 < count {
			end = offsets[i+1]
		}
		if start < 0 || start > len(data) || end < start || end > len(data) {
			bodies[i] = cip.EncodeResponse(cip.ErrorResponse(0, cip.StatusNotEnoughData))
			continue
		}
		bodies[i] = s.dispatchCIP(ctx, data[start:end], depth+1, logger)
	}

	respOffsetsStart := 2
	respDataStart := respOffsetsStart + 2*count
	respOffsets := make([]int, count)
	cursor := respDataStart
	for i, body := range bodies {
		respOffsets[i] = cursor
		cursor += len(body)
	}

	respData := make([]byte, respDataStart)
	binary.LittleEndian.PutUint16(respData[0:2], uint16(count))
	for i, off := range respOffsets {
		binary.LittleEndian.PutUint16(respData[respOffsetsStart+2*i:respOffsetsStart+2*i+2], uint16(off))
	}
	for _, body := range bodies {
		respData = append(respData, body...)
	}

	return cip.EncodeResponse(cip.Response{Service: req.Service, Status: cip.StatusSuccess, Data: respData})
}
