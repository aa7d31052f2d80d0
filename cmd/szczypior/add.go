package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/szczypior/szczypior-bot/internal/catalog"
	"github.com/szczypior/szczypior-bot/internal/common"
	"github.com/szczypior/szczypior-bot/internal/model"
	"github.com/szczypior/szczypior-bot/internal/scoring"
)

func addCmd() *cobra.Command {
	var (
		weight    float64
		elevation float64
	)

	cmd := &cobra.Command{
		Use:   "add <nick> <activity> <distance>",
		Short: "Record an activity manually",
		Long: `Records an activity straight into the ledger, bypassing recognition.
Manual entries are validated strictly: a bonus flag on an activity that
does not support it is an error, not a silent zero.

Example:
  szczypior add gruby bieganie_teren 10.5 --elevation 250`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := slog.Default()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			nick, kindID := args[0], args[1]
			distance, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid distance %q: %w", args[2], err)
			}

			cat := catalog.Default()
			points, err := scoring.Score(cat, scoring.Input{
				KindID:    kindID,
				Distance:  distance,
				Weight:    weight,
				Elevation: elevation,
			}, scoring.Strict)
			if err != nil {
				return fmt.Errorf("%s", common.UserMessage(err))
			}

			led, err := openLedger(ctx, cfg, logger)
			if err != nil {
				return err
			}

			kind, _ := cat.Kind(kindID)
			now := time.Now()
			entry := model.Entry{
				Date:          now,
				Nick:          nick,
				ActivityLabel: catalog.NormalizeLabel(kind.DisplayName),
				Distance:      distance,
				Elevation:     elevation,
				HeavyLoad:     weight > 5,
				Identity:      model.MessageIdentity(fmt.Sprintf("manual-%d", now.UnixNano())),
			}
			if err := led.Record(ctx, entry); err != nil {
				return fmt.Errorf("failed to record activity: %w", err)
			}

			fmt.Printf("%s Zapisano: %s, %s %s, %d pkt (nick: %s)\n",
				kind.Emoji, entry.ActivityLabel, model.FormatDistance(distance, 2), kind.Unit, points, nick)
			return nil
		},
	}

	cmd.Flags().Float64Var(&weight, "weight", 0, "carried load in kg")
	cmd.Flags().Float64Var(&elevation, "elevation", 0, "elevation gain in meters")
	return cmd
}
