package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edusign/edusign/internal/quiz"
	"github.com/edusign/edusign/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "List finished sessions, or the attempts of one session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		return withRepo(cmd, func(ctx context.Context, repo store.EventRepo) error {
			if len(args) == 1 {
				return printAttempts(ctx, repo, args[0])
			}
			return printSessions(ctx, repo, limit)
		})
	},
}

func printSessions(ctx context.Context, repo store.EventRepo, limit int) error {
	sessions, err := repo.RecentSessions(ctx, store.QueryOpts{Limit: limit})
	if err != nil {
		return fmt.Errorf("query sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Println("No finished sessions yet.")
		return nil
	}

	fmt.Printf("%-36s  %-16s  %-16s  %-12s  %7s  %-15s  %s\n",
		"Session", "When", "Learner", "Set", "Score", "Tier", "Time")
	fmt.Println(rule(120))
	for _, e := range sessions {
		fmt.Printf("%-36s  %-16s  %-16s  %-12s  %3d/%-3d  %-15s  %d:%02d\n",
			e.SessionID,
			e.Timestamp.Local().Format("2006-01-02 15:04"),
			truncate(e.Learner, 16),
			truncate(e.QuestionSet, 12),
			e.Score, e.Total,
			quiz.Tier(e.Tier).Label(),
			e.DurationSecs/60, e.DurationSecs%60,
		)
	}
	return nil
}

func printAttempts(ctx context.Context, repo store.EventRepo, sessionID string) error {
	attempts, err := repo.SessionAttempts(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("query attempts: %w", err)
	}
	if len(attempts) == 0 {
		return fmt.Errorf("no attempts for session %s", sessionID)
	}

	fmt.Printf("%-3s  %-12s  %-12s  %-10s  %-12s  %5s  %6s  %s\n",
		"#", "Prompt", "Expected", "Outcome", "Predicted", "Conf", "Frames", "Error")
	fmt.Println(rule(90))
	for _, a := range attempts {
		fmt.Printf("%-3d  %-12s  %-12s  %-10s  %-12s  %4.0f%%  %6d  %s\n",
			a.QuestionIndex+1,
			truncate(a.Prompt, 12),
			truncate(a.ExpectedSign, 12),
			a.Outcome,
			truncate(a.PredictedSign, 12),
			a.Confidence*100,
			a.FrameCount,
			a.ErrorMessage,
		)
	}
	return nil
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
}
