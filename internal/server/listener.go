package server

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/BurakDalkiran34/simulator-ethernetip-server/internal/enip"
)

// acceptDeadline bounds how long Accept blocks before the loop
// re-checks for cancellation, since net.Listener has no context-aware
// Accept.
const acceptDeadline = time.Second

func (s *Server) acceptLoop(ctx context.Context) {
	type deadliner interface {
		SetDeadline(time.Time) error
	}
	for {
		if ctx.Err() != nil {
			return
		}
		if dl, ok := s.tcpListener.(*net.TCPListener); ok {
			dl.SetDeadline(time.Now().Add(acceptDeadline))
		}
		conn, err := s.tcpListener.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			var opErr *net.OpError
			if errors.As(err, &opErr) && errors.Is(opErr.Err, net.ErrClosed) {
				return
			}
			s.logger.Warn().Err(err).Msg("accept failed")
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(ctx, conn)
		}()
	}
}

// connState is the per-connection state a TCP socket owns: the socket
// itself and the session handles registered over it. The inbound byte
// buffer lives in handleConnection's Reassembler, and the shared
// session registry is reached through the Server.
type connState struct {
	conn      net.Conn
	sessions  map[uint32]bool // sessions this connection has registered; recorded, not otherwise read
}

func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	remote := conn.RemoteAddr().String()
	logger := s.logger.With().Str("remote_addr", remote).Logger()
	logger.Info().Msg("connection accepted")
	defer func() {
		conn.Close()
		logger.Info().Msg("connection closed")
	}()

	cs := &connState{conn: conn, sessions: make(map[uint32]bool)}
	var reassembler enip.Reassembler
	buf := make([]byte, 8192)

	for {
		if ctx.Err() != nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, err := conn.Read(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			if err != io.EOF {
				logger.Debug().Err(err).Msg("read error")
			}
			return
		}
		reassembler.Feed(buf[:n])
		frames, dropped := reassembler.Drain()
		if dropped > 0 {
			logger.Warn().Int("bytes", dropped).Msg("dropped unrecoverable frame buffer")
		}
		for _, frame := range frames {
			resp := s.handleFrame(ctx, cs, frame, logger)
			if resp == nil {
				continue
			}
			if _, err := conn.Write(resp); err != nil {
				logger.Debug().Err(err).Msg("write error")
				return
			}
		}
	}
}
