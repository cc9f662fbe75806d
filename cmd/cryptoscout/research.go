package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cryptoscout/config"
	"cryptoscout/internal/research"
)

// defaultQuery keeps the one-shot command useful without arguments.
const defaultQuery = "Bitcoin and Ethereum price analysis"

func researchCMD() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "research [query]",
		Short: "Run one research pass and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				query = defaultQuery
			}
			cfg := config.LoadConfig(cfgPath)

			logger := log.New(log.Writer(), "[PIPE] ", log.LstdFlags)
			pipeline, err := research.Build(cfg, logger, nil)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if cfg.General.DefaultTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.General.DefaultTimeout)
				defer cancel()
			}

			report, err := pipeline.Run(ctx, query)
			if err != nil {
				return err
			}

			fmt.Println(report.Text)
			if !report.Rejected {
				fmt.Printf("\n--- %d sources, %s ---\n", len(report.SourceURLs), report.Elapsed.Round(time.Millisecond))
				for _, u := range report.SourceURLs {
					fmt.Println("  " + u)
				}
				if len(report.Unrecognized) > 0 {
					fmt.Printf("unrecognized tokens: %s\n", strings.Join(report.Unrecognized, ", "))
				}
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")
	return cmd
}
