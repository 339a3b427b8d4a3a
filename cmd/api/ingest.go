package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/akolanti/FinalGuardian/internal/adapter"
	"github.com/akolanti/FinalGuardian/internal/adapter/utils"
	"github.com/akolanti/FinalGuardian/internal/config"
	"github.com/akolanti/FinalGuardian/internal/rag/ingest"
	"github.com/spf13/cobra"
)

func ingestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file>...",
		Short: "Index note files without starting the server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := setup(os.Stderr)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			ctx = context.WithValue(ctx, config.TRACE_ID_KEY, utils.GetNewUUID())

			parts, err := buildComponents(ctx, settings)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, path := range args {
				doc, err := ingest.Load(path, filepath.Base(path))
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				report, err := parts.service.HandleUpload(ctx, doc)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				res := adapter.ToUploadResponse(report)
				fmt.Fprintf(out, "%s: %s (accepted %d, skipped %d)\n", path, res.Message, res.Accepted, res.Skipped)
			}
			return nil
		},
	}
}
