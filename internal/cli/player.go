package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player profile commands",
	}

	cmd.AddCommand(newPlayerProfileCmd())
	cmd.AddCommand(newPlayerUpdateCmd())
	cmd.AddCommand(newPlayerStatsCmd())

	return cmd
}

// resolveAddress prefers an explicit argument over the configured address
func resolveAddress(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return requireAddress()
}

func newPlayerProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile [address]",
		Short: "Show a player profile",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := resolveAddress(args)
			if err != nil {
				return err
			}

			var result Profile
			if err := client.Get(fmt.Sprintf("/api/v1/players/%s", address), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newPlayerUpdateCmd() *cobra.Command {
	var nickname, avatar string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update your nickname or avatar",
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := requireAddress()
			if err != nil {
				return err
			}

			req := map[string]string{}
			if nickname != "" {
				req["nickname"] = nickname
			}
			if avatar != "" {
				req["avatar"] = avatar
			}

			var result Profile
			if err := client.Patch(fmt.Sprintf("/api/v1/players/%s", address), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&nickname, "nickname", "", "New nickname")
	cmd.Flags().StringVar(&avatar, "avatar", "", "New avatar URL")

	return cmd
}

func newPlayerStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [address]",
		Short: "Show detailed player statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := resolveAddress(args)
			if err != nil {
				return err
			}

			var result PlayerStats
			if err := client.Get(fmt.Sprintf("/api/v1/players/%s/stats", address), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}
