package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-pacer/internal/runtimeconfig"
)

func newMigrateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the waitlist, subscriber and user tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, err := root.container(cmd.Context(), func(cfg *runtimeconfig.Config) {
				cfg.Storage.AutoMigrate = true
			})
			if err != nil {
				return err
			}
			defer container.Close()

			if container.DB() == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "memory storage: nothing to migrate")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %s storage\n", container.Config.Storage.Driver)
			return nil
		},
	}
}
