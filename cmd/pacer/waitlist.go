package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-pacer/internal/commands/audiencecmd"
)

func newWaitlistCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "waitlist",
		Short: "Manage stored waitlist entries",
	}
	cmd.AddCommand(newWaitlistExportCmd(root))
	return cmd
}

func newWaitlistExportCmd(root *rootOptions) *cobra.Command {
	var (
		out   string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write waitlist entries to a CSV file, newest first",
		Long: `Write waitlist entries to a CSV file, newest first. The file is
replaced atomically.

Examples:
  pacer waitlist export --out waitlist.csv
  pacer waitlist export --out latest.csv --limit 100`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			container, err := root.container(ctx, nil)
			if err != nil {
				return err
			}
			defer container.Close()

			rows := 0
			err = container.ExportWaitlistHandler().Execute(ctx, audiencecmd.ExportWaitlistCommand{
				Path:           out,
				Limit:          limit,
				ResultCallback: func(n int) { rows = n },
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d entries to %s\n", rows, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "destination CSV file")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows to export (0 exports all)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
