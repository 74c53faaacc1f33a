package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errMissingAddress = errors.New("player address required: set --address or TTT_ADDRESS")

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match lifecycle commands",
	}

	cmd.AddCommand(newMatchCreateCmd())
	cmd.AddCommand(newMatchListCmd())
	cmd.AddCommand(newMatchGetCmd())
	cmd.AddCommand(newMatchJoinCmd())
	cmd.AddCommand(newMatchCancelCmd())
	cmd.AddCommand(newMatchMineCmd())
	cmd.AddCommand(newMatchCurrentCmd())

	return cmd
}

func newMatchCreateCmd() *cobra.Command {
	var stake float64
	var matchID string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new match with a stake",
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := requireAddress()
			if err != nil {
				return err
			}

			req := map[string]any{
				"player1":     address,
				"stakeAmount": stake,
			}
			if matchID != "" {
				req["matchId"] = matchID
			}

			var result Match
			if err := client.Post("/api/v1/matches", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().Float64Var(&stake, "stake", 0, "Stake amount (required)")
	cmd.Flags().StringVar(&matchID, "match-id", "", "Match ID (default: generated)")
	_ = cmd.MarkFlagRequired("stake")

	return cmd
}

func newMatchListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List matches available to join",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Match
			path := fmt.Sprintf("/api/v1/matches/available?limit=%d", limit)
			if err := client.Get(path, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum matches to list")

	return cmd
}

func newMatchGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <matchId>",
		Short: "Get match details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Match
			if err := client.Get(fmt.Sprintf("/api/v1/matches/%s", args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newMatchJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <matchId>",
		Short: "Join a waiting match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := requireAddress()
			if err != nil {
				return err
			}

			req := map[string]string{"player2": address}

			var result Match
			if err := client.Post(fmt.Sprintf("/api/v1/matches/%s/join", args[0]), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newMatchCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <matchId>",
		Short: "Cancel a match you participate in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := requireAddress()
			if err != nil {
				return err
			}

			req := map[string]string{"player": address}

			var result Match
			if err := client.Post(fmt.Sprintf("/api/v1/matches/%s/cancel", args[0]), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newMatchMineCmd() *cobra.Command {
	var status string
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "mine",
		Short: "List your matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := requireAddress()
			if err != nil {
				return err
			}

			path := fmt.Sprintf("/api/v1/matches/user/%s?limit=%d&offset=%d", address, limit, offset)
			if status != "" {
				path += "&status=" + status
			}

			var result UserMatches
			if err := client.Get(path, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (waiting, active, completed, cancelled, settled)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "Page offset")

	return cmd
}

func newMatchCurrentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show your open match, if any",
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := requireAddress()
			if err != nil {
				return err
			}

			var result CurrentMatch
			if err := client.Get(fmt.Sprintf("/api/v1/matches/current/%s", address), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}
