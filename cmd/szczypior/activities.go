package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/szczypior/szczypior-bot/internal/catalog"
	"github.com/szczypior/szczypior-bot/internal/model"
)

func activitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activities",
		Short: "List supported activity types and their scoring",
		RunE: func(_ *cobra.Command, _ []string) error {
			for _, kind := range catalog.Default().Kinds() {
				fmt.Printf("%s %s (%s)\n", kind.Emoji, kind.DisplayName, kind.ID)
				fmt.Printf("   %d pkt za %s", kind.BasePoints, kind.Unit)
				if kind.MinDistance > 0 {
					fmt.Printf(", minimum %s %s", model.FormatDistance(kind.MinDistance, 0), kind.Unit)
				}
				if len(kind.Bonuses) > 0 {
					names := make([]string, 0, len(kind.Bonuses))
					for _, b := range kind.Bonuses {
						names = append(names, string(b))
					}
					fmt.Printf(", bonusy: %s", strings.Join(names, ", "))
				}
				fmt.Println()
			}
			return nil
		},
	}
}
