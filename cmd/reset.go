package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edusign/edusign/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every recorded session, attempt and request",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("reset deletes all history; pass --yes to confirm")
		}

		err := withRepo(cmd, func(ctx context.Context, repo store.EventRepo) error {
			return repo.Reset(ctx)
		})
		if err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		fmt.Println("History cleared.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deleting all history")
}
