package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-pacer/internal/audience"
	"github.com/goliatone/go-pacer/internal/auth"
)

var errAuthSecretMissing = errors.New("auth.secret is not configured; set PACER_AUTH_SECRET")

func newTokenCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage admin API tokens",
	}
	cmd.AddCommand(newTokenIssueCmd(root))
	return cmd
}

func newTokenIssueCmd(root *rootOptions) *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Mint a bearer token for the admin API",
		Long: `Mint a signed bearer token for the admin API.

Examples:
  pacer token issue --sub coach@pacer.run
  pacer token issue --sub ops --role admin --ttl 1h`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if cfg.Auth.Secret == "" {
				return errAuthSecretMissing
			}
			if ttl <= 0 {
				ttl = cfg.Auth.TokenTTL
			}
			tokens, err := auth.NewTokens(auth.Config{
				Secret: cfg.Auth.Secret,
				Issuer: cfg.Auth.Issuer,
				TTL:    ttl,
			})
			if err != nil {
				return err
			}
			token, claims, err := tokens.Issue(subject, role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", claims.ExpiresAt.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "sub", "", "token subject, usually an email")
	cmd.Flags().StringVar(&role, "role", audience.RoleEditor, "role claim (admin or editor)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "lifetime (defaults to auth.token_ttl)")
	_ = cmd.MarkFlagRequired("sub")
	return cmd
}
