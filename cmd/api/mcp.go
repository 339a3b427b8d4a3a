package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/FinalGuardian/internal/mcpServer"
	"github.com/spf13/cobra"
)

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the tutor tools over MCP on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the protocol
			settings, err := setup(os.Stderr)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			parts, err := buildComponents(ctx, settings)
			if err != nil {
				return err
			}
			srv, err := mcpServer.NewServer(parts.service, parts.tools...)
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}
}
