package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/szczypior/szczypior-bot/internal/backlog"
	"github.com/szczypior/szczypior-bot/internal/common"
	"github.com/szczypior/szczypior-bot/internal/config"
	"github.com/szczypior/szczypior-bot/internal/discord"
)

func runCmd() *cobra.Command {
	var syncBacklog bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the bot and watch the monitored channel",
		Long: `Connects to Discord and processes every message posted to the monitored
channel: recognized activities are scored, written to the Google Sheets
ledger and acknowledged with a reply.

Recent channel history is replayed first so activities posted while the bot
was offline are not lost; disable with --sync=false.`,
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

			gateway, err := discord.NewGateway(cfg.Discord.Token, cfg.Discord.ChannelID, logger)
			if err != nil {
				return err
			}

			orch, client, err := buildPipeline(ctx, cfg, led, gateway.Notifier(), logger)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			if syncBacklog {
				synchronizer := backlog.New(gateway.History(), orch, led, logger)
				report, err := synchronizer.Sync(ctx, cfg.Discord.ChannelID, cfg.Discord.HistoryLimit)
				if err != nil {
					logger.Error("backlog sync failed", "error", err)
				} else {
					logger.Info("backlog synced", "added", report.Added, "duplicates", report.Duplicates)
				}
			}

			if err := gateway.Start(ctx, orch); err != nil {
				return err
			}
			defer func() { _ = gateway.Close() }()

			logger.Info("bot is running", "channel", cfg.Discord.ChannelID)
			<-ctx.Done()
			logger.Info("shutting down")
			return nil
		},
	}

	cmd.Flags().BoolVar(&syncBacklog, "sync", true, "replay recent channel history before going live")
	return cmd
}

func requireDiscord(cfg *config.Config) error {
	if cfg.Discord.Token == "" {
		return fmt.Errorf("%w: discord bot token is not set (DISCORD_BOT_TOKEN)", common.ErrMissingConfig)
	}
	if cfg.Discord.ChannelID == "" {
		return fmt.Errorf("%w: monitored channel id is not set (MONITORED_CHANNEL_ID)", common.ErrMissingConfig)
	}
	return nil
}
