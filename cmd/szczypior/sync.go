package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/szczypior/szczypior-bot/internal/backlog"
	"github.com/szczypior/szczypior-bot/internal/discord"
)

func syncCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Replay channel history into the ledger",
		Long: `Scans recent messages in the monitored channel and records every activity
that is not yet in the ledger. The scan is idempotent: running it twice
adds nothing the second time.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := slog.Default()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := requireDiscord(cfg); err != nil {
				return err
			}

			led, err := openLedger(ctx, cfg, logger)
			if err != nil {
				return err
			}

			// History reads go over REST, so the gateway connection is
			// never opened here.
			gateway, err := discord.NewGateway(cfg.Discord.Token, cfg.Discord.ChannelID, logger)
			if err != nil {
				return err
			}

			orch, client, err := buildPipeline(ctx, cfg, led, gateway.Notifier(), logger)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			if limit <= 0 {
				limit = cfg.Discord.HistoryLimit
			}

			synchronizer := backlog.New(gateway.History(), orch, led, logger)
			report, err := synchronizer.Sync(ctx, cfg.Discord.ChannelID, limit)
			if err != nil {
				return err
			}

			fmt.Printf("Przeskanowano: %d\n", report.Scanned)
			fmt.Printf("Dodano:        %d\n", report.Added)
			fmt.Printf("Duplikaty:     %d\n", report.Duplicates)
			fmt.Printf("Nierozpoznane: %d\n", report.Unrecognized)
			fmt.Printf("Odrzucone:     %d\n", report.Rejected)
			fmt.Printf("Błędy:         %d\n", report.Failed)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "how many messages to scan (default: configured history limit)")
	return cmd
}
