package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-pacer/internal/di"
	"github.com/goliatone/go-pacer/internal/runtimeconfig"
)

const configFileEnv = "PACER_CONFIG_FILE"

type rootOptions struct {
	cfgFile  string
	logLevel string
	v        *viper.Viper
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "pacer",
		Short: "Pacer marketing site: blog, waitlist and audience records",
		Long: `Pacer serves the landing page, the markdown blog and the waitlist form,
and exposes a small admin API for waitlist, subscriber and user records.

Quick Start:
  pacer serve                     Start the site on :8080
  pacer posts list                List published posts
  pacer waitlist export --out x   Write the waitlist to CSV
  pacer token issue --sub me      Mint an admin API token`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is .pacer.yml, can also use "+configFileEnv+")")
	cmd.PersistentFlags().StringVarP(&opts.logLevel, "log-level", "l", "", "log level (trace, debug, info, warn, error)")

	cmd.AddCommand(
		newServeCmd(opts),
		newPostsCmd(opts),
		newMigrateCmd(opts),
		newWaitlistCmd(opts),
		newTokenCmd(opts),
		newBuildFeedsCmd(opts),
	)
	return cmd
}

// load resolves the runtime configuration. Environment variables win over
// the file, and the --log-level flag wins over both.
func (o *rootOptions) load() (runtimeconfig.Config, error) {
	cfg := runtimeconfig.DefaultConfig()
	v := o.v

	explicit := true
	switch {
	case o.cfgFile != "":
		v.SetConfigFile(o.cfgFile)
	case os.Getenv(configFileEnv) != "":
		v.SetConfigFile(os.Getenv(configFileEnv))
	default:
		explicit = false
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".pacer")
	}
	v.SetEnvPrefix("PACER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	if err := runtimeconfig.ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	return cfg, nil
}

// container loads the configuration and wires every service.
func (o *rootOptions) container(ctx context.Context, mutate func(*runtimeconfig.Config)) (*di.Container, error) {
	cfg, err := o.load()
	if err != nil {
		return nil, err
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return di.NewContainer(ctx, cfg, di.WithHTTPClient(&http.Client{Timeout: cfg.Waitlist.WebhookTimeout}))
}
