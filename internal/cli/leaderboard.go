package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLeaderboardCmd() *cobra.Command {
	var sortBy, period string
	var limit int

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the player leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/leaderboard?sortBy=%s&period=%s&limit=%d", sortBy, period, limit)

			var result []LeaderboardEntry
			if err := client.Get(path, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&sortBy, "sort", "totalEarnings", "Sort by: totalEarnings, totalWins, winRate")
	cmd.Flags().StringVar(&period, "period", "all", "Activity period: all, week, month")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum entries")

	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show platform-wide statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PlatformStats
			if err := client.Get("/api/v1/stats", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}
