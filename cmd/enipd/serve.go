package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/BurakDalkiran34/simulator-ethernetip-server/internal/config"
	"github.com/BurakDalkiran34/simulator-ethernetip-server/internal/logging"
	"github.com/BurakDalkiran34/simulator-ethernetip-server/internal/server"
)

type serveFlags struct {
	configPath      string
	tcpPort         uint16
	udpPort         uint16
	bindHost        string
	vendorID        uint16
	deviceType      uint16
	productCode     uint32
	productName     string
	idleTimeoutMs   int
	sweepIntervalMs int
	tagCount        int
	logLevel        string
}

func newServeCmd() *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the EtherNet/IP simulator",
		Long: `Binds the TCP encapsulation endpoint (default 0.0.0.0:44818) and the
UDP implicit-messaging stub (default 0.0.0.0:2222), and serves until
interrupted.

Flags override any value loaded from --config; --config itself is
optional, and the documented defaults apply to anything left unset.

Press Ctrl+C to stop the server gracefully.`,
		Example: `  # Start with documented defaults
  enipd serve

  # Start on a non-default port with a custom identity
  enipd serve --tcp-port 44819 --vendor-id 1 --product-name "Acme Widget"

  # Start from a config file, overriding its tag count
  enipd serve --config enipd.yaml --tag-count 250`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(flags)
		},
	}
	registerServeFlags(cmd, flags)
	return cmd
}

func registerServeFlags(cmd *cobra.Command, flags *serveFlags) {
	cmd.Flags().StringVar(&flags.configPath, "config", "", "YAML config file path (optional)")
	cmd.Flags().Uint16Var(&flags.tcpPort, "tcp-port", 0, "TCP bind port (default 44818)")
	cmd.Flags().Uint16Var(&flags.udpPort, "udp-port", 0, "UDP bind port (default 2222)")
	cmd.Flags().StringVar(&flags.bindHost, "bind-host", "", "Bind address (default \"0.0.0.0\")")
	cmd.Flags().Uint16Var(&flags.vendorID, "vendor-id", 0, "Identity vendor_id")
	cmd.Flags().Uint16Var(&flags.deviceType, "device-type", 0, "Identity device_type")
	cmd.Flags().Uint32Var(&flags.productCode, "product-code", 0, "Identity product_code")
	cmd.Flags().StringVar(&flags.productName, "product-name", "", "Identity product_name (<=32 ASCII bytes)")
	cmd.Flags().IntVar(&flags.idleTimeoutMs, "idle-timeout-ms", 0, "Session idle timeout in ms (default 300000)")
	cmd.Flags().IntVar(&flags.sweepIntervalMs, "sweep-interval-ms", 0, "Session sweep interval in ms (default 60000)")
	cmd.Flags().IntVar(&flags.tagCount, "tag-count", 0, "Number of tags to populate at startup (default 100)")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "info", "Log level: debug|info|warn|error")
}

func runServe(flags *serveFlags) error {
	cfg := config.Default()
	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	applyServeOverrides(&cfg, flags)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.New(flags.logLevel, os.Stdout)
	srv := server.New(cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info().Msg("shutdown signal received")
	return srv.Stop()
}

func applyServeOverrides(cfg *config.Config, flags *serveFlags) {
	if flags.tcpPort != 0 {
		cfg.TCPPort = flags.tcpPort
	}
	if flags.udpPort != 0 {
		cfg.UDPPort = flags.udpPort
	}
	if flags.bindHost != "" {
		cfg.BindHost = flags.bindHost
	}
	if flags.vendorID != 0 {
		cfg.VendorID = flags.vendorID
	}
	if flags.deviceType != 0 {
		cfg.DeviceType = flags.deviceType
	}
	if flags.productCode != 0 {
		cfg.ProductCode = flags.productCode
	}
	if flags.productName != "" {
		cfg.ProductName = flags.productName
	}
	if flags.idleTimeoutMs != 0 {
		cfg.IdleTimeoutMs = flags.idleTimeoutMs
	}
	if flags.sweepIntervalMs != 0 {
		cfg.SweepIntervalMs = flags.sweepIntervalMs
	}
	if flags.tagCount != 0 {
		cfg.TagCount = flags.tagCount
	}
}
