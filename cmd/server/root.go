package main

import (
	"github.com/Wyydra/brocall/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var (
		configPath string
		envFile    string
		overrides  config.Overrides
	)

	cmd := &cobra.Command{
		Use:   "brocall",
		Short: "Signaling relay for BroCall rooms",
		Long: `brocall brokers room membership and WebRTC negotiation messages
(offers, answers, ICE candidates and media toggles) between browsers.
Media never passes through the server.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(envFile); err != nil {
				log.Warn().Err(err).Msg("Ignoring env file")
			}
			cfg, err := config.LoadAndValidate(configPath, overrides)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	f.StringVar(&envFile, "env-file", ".env", "path to a .env file")
	f.StringVarP(&overrides.Addr, "addr", "a", "", "listen address (overrides PORT)")
	f.StringVar(&overrides.StaticDir, "static", "", "directory served at /")
	f.StringVar(&overrides.LogLevel, "log-level", "", "trace, debug, info, warn or error")
	f.StringVar(&overrides.LogFormat, "log-format", "", "console or json")

	return cmd
}
