package main

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"github.com/szczypior/szczypior-bot/internal/model"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the per-user leaderboard",
		Long:  `Reads the whole ledger and prints activity counts, total distance and total points per user.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			led, err := openLedger(ctx, cfg, slog.Default())
			if err != nil {
				return err
			}

			activities, err := led.AllActivities(ctx)
			if err != nil {
				return err
			}
			if len(activities) == 0 {
				fmt.Println("Brak zarejestrowanych aktywności.")
				return nil
			}

			type userStats struct {
				nick     string
				count    int
				distance float64
				points   int
			}
			byNick := make(map[string]*userStats)
			for _, act := range activities {
				s, ok := byNick[act.Nick]
				if !ok {
					s = &userStats{nick: act.Nick}
					byNick[act.Nick] = s
				}
				s.count++
				s.distance += act.Distance
				s.points += act.Points
			}

			ranking := make([]*userStats, 0, len(byNick))
			for _, s := range byNick {
				ranking = append(ranking, s)
			}
			sort.Slice(ranking, func(i, j int) bool {
				return ranking[i].points > ranking[j].points
			})

			fmt.Printf("%-4s %-20s %12s %12s %10s\n", "#", "Nick", "Aktywności", "Dystans", "Punkty")
			for i, s := range ranking {
				fmt.Printf("%-4d %-20s %12d %10s km %10d\n",
					i+1, s.nick, s.count, model.FormatDistance(s.distance, 1), s.points)
			}
			return nil
		},
	}
}
