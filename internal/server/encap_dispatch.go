package server

import (
	"context"
	"encoding/binary"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/BurakDalkiran34/simulator-ethernetip-server/internal/enip"
)

// handleFrame decodes one framed encapsulation packet, dispatches it
// by command, and encodes the response in the same byte order the
// frame was probed with. Returns nil if the frame could not even be
// decoded as a header (a framing error, never propagated to a
// CIP-layer response).
func (s *Server) handleFrame(ctx context.Context, cs *connState, frame enip.Frame, logger zerolog.Logger) []byte {
	pkt, err := enip.Decode(frame.Data, frame.Order, false)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to decode encapsulation header")
		return nil
	}

	resp := s.handleENIPCommand(ctx, cs, pkt, frame.Order, logger)
	return enip.Encode(resp, frame.Order)
}

func (s *Server) handleENIPCommand(ctx context.Context, cs *connState, pkt enip.Packet, order enip.ByteOrder, logger zerolog.Logger) enip.Packet {
	switch pkt.Header.Command {
	case enip.CommandRegisterSession:
		return s.handleRegisterSession(cs, pkt, order, logger)
	case enip.CommandUnregisterSession:
		return s.handleUnregisterSession(cs, pkt, logger)
	case enip.CommandListServices:
		return s.handleListServices(pkt, order)
	case enip.CommandListIdentity:
		return s.handleListIdentity(cs, pkt)
	case enip.CommandSendRRData:
		return s.handleSendRRData(ctx, cs, pkt, order, logger)
	default:
		return enip.Reply(pkt, enip.StatusInvalidCommand, nil)
	}
}

func (s *Server) handleRegisterSession(cs *connState, pkt enip.Packet, order enip.ByteOrder, logger zerolog.Logger) enip.Packet {
	bo := order.Binary()
	if len(pkt.Payload) < 2 || bo.Uint16(pkt.Payload[:2]) != 1 {
		return enip.Reply(pkt, enip.StatusUnsupportedProtocol, nil)
	}
	sess := s.sessions.Create(time.Now())
	cs.sessions[sess.Handle] = true
	logger.Info().Uint32("session", sess.Handle).Msg("register session")

	payload := make([]byte, 4)
	bo.PutUint16(payload[0:2], 1) // protocol_version
	bo.PutUint16(payload[2:4], 0) // options

	resp := enip.Reply(pkt, enip.StatusSuccess, payload)
	resp.Header.SessionHandle = sess.Handle
	return resp
}

func (s *Server) handleUnregisterSession(cs *connState, pkt enip.Packet, logger zerolog.Logger) enip.Packet {
	if !s.sessions.Has(pkt.Header.SessionHandle) {
		return enip.Reply(pkt, enip.StatusInvalidSessionHandle, nil)
	}
	s.sessions.Remove(pkt.Header.SessionHandle)
	delete(cs.sessions, pkt.Header.SessionHandle)
	logger.Info().Uint32("session", pkt.Header.SessionHandle).Msg("unregister session")
	return enip.Reply(pkt, enip.StatusSuccess, nil)
}

// handleListServices reports a single Communications service
// descriptor: {type_code, length, version, capability_flags, name}.
// Unlike LIST_IDENTITY, this payload lives inside the encapsulation
// payload proper, so its integers follow the connection's detected
// byte order per §4.3.
func (s *Server) handleListServices(pkt enip.Packet, order enip.ByteOrder) enip.Packet {
	bo := order.Binary()
	name := [16]byte{}
	copy(name[:], "Communications")

	payload := make([]byte, 24)
	bo.PutUint16(payload[0:2], 0x0100) // type_code: Communications
	bo.PutUint16(payload[2:4], 20)     // length of fields following
	bo.PutUint16(payload[4:6], 1)      // version
	bo.PutUint16(payload[6:8], 0x0120) // capability flags: supports CIP encapsulation
	copy(payload[8:], name[:])

	return enip.Reply(pkt, enip.StatusSuccess, payload)
}

// handleListIdentity builds the identity block documented as the
// LIST_IDENTITY response payload, always big-endian per that layout's
// note, regardless of the connection's detected encapsulation order.
func (s *Server) handleListIdentity(cs *connState, pkt enip.Packet) enip.Packet {
	name := s.identity.ProductName
	if len(name) > 32 {
		name = name[:32]
	}

	payload := make([]byte, 0, 0x1E+len(name)+1)
	payload = append(payload, 0x00, 0x00) // legacy leading bytes, see LIST_IDENTITY note
	payload = append(payload, 0x00, 0x00) // port = 0

	ip := localIPv4(cs.conn)
	payload = append(payload, ip[0], ip[1], ip[2], ip[3])
	payload = append(payload, make([]byte, 8)...) // reserved

	buf2 := make([]byte, 2)
	binary.BigEndian.PutUint16(buf2, s.identity.VendorID)
	payload = append(payload, buf2...)
	binary.BigEndian.PutUint16(buf2, s.identity.DeviceType)
	payload = append(payload, buf2...)

	buf4 := make([]byte, 4)
	binary.BigEndian.PutUint32(buf4, s.identity.ProductCode)
	payload = append(payload, buf4...)

	payload = append(payload, s.identity.RevisionMajor, s.identity.RevisionMinor)

	binary.BigEndian.PutUint16(buf2, 0x0001) // status
	payload = append(payload, buf2...)

	binary.BigEndian.PutUint32(buf4, 0) // serial, per the LIST_IDENTITY layout note
	payload = append(payload, buf4...)

	binary.BigEndian.PutUint16(buf2, uint16(len(name)))
	payload = append(payload, buf2...)
	payload = append(payload, name...)
	payload = append(payload, 0x00) // trailing NUL

	return enip.Reply(pkt, enip.StatusSuccess, payload)
}

func localIPv4(conn net.Conn) [4]byte {
	var out [4]byte
	if conn == nil {
		return out
	}
	local, ok := conn.LocalAddr().(*net.TCPAddr)
	if !ok || local.IP == nil {
		return out
	}
	v4 := local.IP.To4()
	if v4 == nil {
		return out
	}
	copy(out[:], v4)
	return out
}
