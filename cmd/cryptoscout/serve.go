package main

import (
	"github.com/spf13/cobra"

	"cryptoscout/config"
	srv "cryptoscout/internal/server"
)

func serveCMD() *cobra.Command {
	var cfgPath string
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(cfgPath)
			if addr != "" {
				cfg.Server.Address = addr
			}
			return srv.Run(cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")
	return cmd
}
