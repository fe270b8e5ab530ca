// Package server wires the encapsulation and CIP layers together into
// a runnable EtherNet/IP endpoint: a TCP listener dispatching explicit
// messaging, a UDP stub acknowledging the implicit-messaging port
// reservation, the session registry's sweep loop, and the small
// in-memory object model the CIP dispatcher serves.
package server

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/BurakDalkiran34/simulator-ethernetip-server/internal/config"
	"github.com/BurakDalkiran34/simulator-ethernetip-server/internal/session"
	"github.com/BurakDalkiran34/simulator-ethernetip-server/internal/tagstore"
)

// Identity holds the static device-identity attributes §4.7 and the
// LIST_IDENTITY payload are both built from.
type Identity struct {
	VendorID      uint16
	DeviceType    uint16
	ProductCode   uint32
	RevisionMajor uint8
	RevisionMinor uint8
	Serial        uint32
	ProductName   string
}

// Server owns every piece of shared state: the session registry and
// tag store are constructed once and handed by reference to every
// connection handler, with no package-level globals.
type Server struct {
	cfg      config.Config
	logger   zerolog.Logger
	identity Identity

	sessions *session.Registry
	tags     *tagstore.Store

	tcpListener net.Listener
	udpConn     *net.UDPConn

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New constructs a Server from cfg. It does not bind any sockets; call
// Start for that.
func New(cfg config.Config, logger zerolog.Logger) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
		identity: Identity{
			VendorID:      cfg.VendorID,
			DeviceType:    cfg.DeviceType,
			ProductCode:   cfg.ProductCode,
			RevisionMajor: 1,
			RevisionMinor: 0,
			Serial:        0x12345678,
			ProductName:   cfg.ProductName,
		},
		sessions: session.NewRegistry(logger),
		tags:     tagstore.New(cfg.TagCount, time.Now().UnixNano()),
	}
}

// Start binds the TCP and UDP sockets and begins serving. It returns
// once both sockets are bound; serving happens in background
// goroutines until Stop is called or ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	tcpAddr := fmt.Sprintf("%s:%d", s.cfg.BindHost, s.cfg.TCPPort)
	ln, err := net.Listen("tcp", tcpAddr)
	if err != nil {
		return fmt.Errorf("bind tcp %s: %w", tcpAddr, err)
	}
	s.tcpListener = ln

	udpAddr := &net.UDPAddr{IP: net.ParseIP(s.cfg.BindHost), Port: int(s.cfg.UDPPort)}
	udpConn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		ln.Close()
		return fmt.Errorf("bind udp %s: %w", udpAddr, err)
	}
	s.udpConn = udpConn

	idleTimeout := time.Duration(s.cfg.IdleTimeoutMs) * time.Millisecond
	sweepInterval := time.Duration(s.cfg.SweepIntervalMs) * time.Millisecond

	s.wg.Add(3)
	go func() {
		defer s.wg.Done()
		s.acceptLoop(runCtx)
	}()
	go func() {
		defer s.wg.Done()
		s.udpLoop(runCtx)
	}()
	go func() {
		defer s.wg.Done()
		s.sessions.Run(runCtx, sweepInterval, idleTimeout)
	}()

	s.logger.Info().Str("tcp", tcpAddr).Str("udp", udpAddr.String()).Msg("server started")
	return nil
}

// Stop closes both sockets and waits for all background goroutines to
// exit.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	var firstErr error
	if s.tcpListener != nil {
		if err := s.tcpListener.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.udpConn != nil {
		if err := s.udpConn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.wg.Wait()
	s.logger.Info().Msg("server stopped")
	return firstErr
}

// TCPAddr returns the bound TCP listener's address, valid only after
// Start succeeds.
func (s *Server) TCPAddr() net.Addr {
	if s.tcpListener == nil {
		return nil
	}
	return s.tcpListener.Addr()
}

// SessionCount exposes the live session count, used by the Connection
// Manager object's attribute 2.
func (s *Server) SessionCount() int {
	return s.sessions.Count()
}
