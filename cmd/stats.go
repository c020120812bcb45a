package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edusign/edusign/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show accuracy per sign and recognizer usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepo(cmd, printStats)
	},
}

func printStats(ctx context.Context, repo store.EventRepo) error {
	signs, err := repo.SignAccuracy(ctx)
	if err != nil {
		return fmt.Errorf("query accuracy: %w", err)
	}
	if len(signs) == 0 {
		fmt.Println("No attempts recorded yet.")
		return nil
	}

	fmt.Println("Accuracy by Sign")
	fmt.Println(rule(60))
	fmt.Printf("%-16s  %8s  %8s  %9s  %10s\n", "Sign", "Attempts", "Correct", "Accuracy", "Avg Conf")
	fmt.Println(rule(60))

	var attempts, correct int
	for _, sa := range signs {
		fmt.Printf("%-16s  %8d  %8d  %8.0f%%  %9.0f%%\n",
			truncate(sa.Sign, 16), sa.Attempts, sa.Correct, sa.Accuracy*100, sa.AvgConfidence*100)
		attempts += sa.Attempts
		correct += sa.Correct
	}
	fmt.Println(rule(60))
	fmt.Printf("%-16s  %8d  %8d  %8.0f%%\n", "TOTAL", attempts, correct, percent(correct, attempts))

	recs, err := repo.QueryRecognitionEvents(ctx, store.QueryOpts{Limit: 500})
	if err != nil {
		return fmt.Errorf("query recognitions: %w", err)
	}
	if len(recs) > 0 {
		printRecognizerUsage(recs)
	}
	return nil
}

type backendUsage struct {
	calls    int
	failures int
	latency  int64
}

func printRecognizerUsage(recs []store.RecognitionEvent) {
	usage := map[string]*backendUsage{}
	var order []string
	for _, r := range recs {
		u, ok := usage[r.Backend]
		if !ok {
			u = &backendUsage{}
			usage[r.Backend] = u
			order = append(order, r.Backend)
		}
		u.calls++
		u.latency += r.LatencyMs
		if !r.Success {
			u.failures++
		}
	}

	fmt.Println()
	fmt.Printf("Recognizer (last %d calls)\n", len(recs))
	fmt.Println(rule(60))
	fmt.Printf("%-28s  %6s  %8s  %8s\n", "Backend", "Calls", "Failures", "Avg Ms")
	fmt.Println(rule(60))
	for _, name := range order {
		u := usage[name]
		fmt.Printf("%-28s  %6d  %8d  %8d\n", truncate(name, 28), u.calls, u.failures, u.latency/int64(u.calls))
	}
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
