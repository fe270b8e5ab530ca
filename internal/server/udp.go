package server

import (
	"context"
	"net"
	"time"
)

// udpLoop implements the implicit-messaging port reservation: it
// reads datagrams so the socket drains, performs no parsing of them,
// and sends no replies, per the UDP endpoint's specified interface.
func (s *Server) udpLoop(ctx context.Context) {
	buf := make([]byte, 2048)
	for {
		if ctx.Err() != nil {
			return
		}
		s.udpConn.SetReadDeadline(time.Now().Add(acceptDeadline))
		n, addr, err := s.udpConn.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			continue
		}
		s.logger.Debug().Str("remote_addr", addr.String()).Int("bytes", n).Msg("udp datagram received, no parsing performed")
	}
}
