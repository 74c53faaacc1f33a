package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "In-game commands",
	}

	cmd.AddCommand(newGameMoveCmd())
	cmd.AddCommand(newGameStateCmd())
	cmd.AddCommand(newGameHistoryCmd())
	cmd.AddCommand(newGameForfeitCmd())
	cmd.AddCommand(newGameSettleCmd())

	return cmd
}

func newGameMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <matchId> <position>",
		Short: "Place your mark at a board position (0-8)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := requireAddress()
			if err != nil {
				return err
			}

			position, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("position must be a number 0-8: %w", err)
			}

			req := map[string]any{
				"player":   address,
				"position": position,
			}

			var result Match
			if err := client.Post(fmt.Sprintf("/api/v1/game/%s/move", args[0]), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state <matchId>",
		Short: "Show the current game state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameState
			if err := client.Get(fmt.Sprintf("/api/v1/game/%s/state", args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <matchId>",
		Short: "Show the full move history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameHistory
			if err := client.Get(fmt.Sprintf("/api/v1/game/%s/history", args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameForfeitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forfeit <matchId>",
		Short: "Concede the match to your opponent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := requireAddress()
			if err != nil {
				return err
			}

			req := map[string]string{"player": address}

			var result Match
			if err := client.Post(fmt.Sprintf("/api/v1/game/%s/forfeit", args[0]), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameSettleCmd() *cobra.Command {
	var winner string

	cmd := &cobra.Command{
		Use:   "settle <matchId> <txHash>",
		Short: "Record the external settlement reference for a match",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"txHash": args[1]}
			if winner != "" {
				req["winner"] = winner
			}

			var result Match
			if err := client.Post(fmt.Sprintf("/api/v1/game/%s/settle", args[0]), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&winner, "winner", "", "Override the recorded winner")

	return cmd
}
