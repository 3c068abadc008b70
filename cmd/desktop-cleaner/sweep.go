package main

import (
	"context"
	"strings"

	"desktop-cleaner/internal/errors"
	"desktop-cleaner/internal/report"

	"github.com/spf13/cobra"
)

// newSweepCmd runs a single sweep and prints what happened.
func newSweepCmd(d deps, f *flags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run one sweep and print a report",
		Long:  `Run a single sweep of the Desktop, print a report of every decision and exit. Fails if the Desktop cannot be read.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(output)
			if err != nil {
				return err
			}

			cfg, err := buildConfig(f)
			if err != nil {
				return err
			}

			sweeper, err := newSweeper(d, cfg)
			if err != nil {
				return err
			}

			ctx, shutdown, stop := notifyShutdown(cmd.Context(), d.signals)
			defer stop()

			result, sweepErr := sweeper.Sweep(ctx, cfg)
			if errors.Is(sweepErr, context.Canceled) {
				if sigErr := shutdown.err(); sigErr != nil {
					// Report what was done before the signal.
					if err := report.Write(cmd.OutOrStdout(), result, format); err != nil {
						return err
					}
					return sigErr
				}
			}
			if sweepErr != nil {
				return sweepErr
			}
			return report.Write(cmd.OutOrStdout(), result, format)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", string(report.Text), "Report format: "+strings.Join(report.Formats(), ", "))

	return cmd
}
