package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "enipd",
		Short:         "EtherNet/IP server simulator",
		Long:          "enipd is a stateful EtherNet/IP endpoint simulating a small CIP device: Identity, Message Router, and Connection Manager objects plus a symbolic tag table.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serveCmd := newServeCmd()
	rootCmd.AddCommand(serveCmd)
	// serve is also the default action: running enipd with no subcommand
	// starts the server directly, so the common case needs no verb.
	rootCmd.RunE = serveCmd.RunE
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
