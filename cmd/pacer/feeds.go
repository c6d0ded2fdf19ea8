package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-pacer/internal/feeds"
)

func newBuildFeedsCmd(root *rootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:     "build-feeds",
		Aliases: []string{"b"},
		Short:   "Write feed.xml, feed.atom.xml, sitemap.xml and robots.txt",
		Long: `Render RSS, Atom, the sitemap and robots.txt from the current posts and
write them into a directory for static hosting.

Examples:
  pacer build-feeds --out public`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			container, err := root.container(ctx, nil)
			if err != nil {
				return err
			}
			defer container.Close()

			bundle, err := container.Feeds().Build(ctx)
			if err != nil {
				return err
			}
			written, err := feeds.WriteStatic(ctx, out, bundle)
			if err != nil {
				return err
			}
			for _, path := range written {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "public", "output directory")
	return cmd
}
