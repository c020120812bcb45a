package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/edusign/edusign/internal/app"
	"github.com/edusign/edusign/internal/logging"
	"github.com/edusign/edusign/internal/screens/home"
	"github.com/edusign/edusign/internal/store"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a quiz straight away",
	RunE: func(cmd *cobra.Command, args []string) error {
		set, _ := cmd.Flags().GetString("set")
		learner, _ := cmd.Flags().GetString("learner")
		return runTUI(cmd, set, learner)
	},
}

func init() {
	playCmd.Flags().StringP("set", "s", "numbers", "Question set to play")
	playCmd.Flags().StringP("learner", "l", "", "Learner name (skips name entry)")
}

// runTUI builds the runtime and launches the terminal app. The terminal
// belongs to the renderer, so logs go to a file in the data directory.
func runTUI(cmd *cobra.Command, set, learner string) error {
	logPath, err := tuiLogPath()
	if err != nil {
		return err
	}
	logFile, err := logging.OpenFile(logPath)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	rt, err := newRuntime(cmd, logFile)
	if err != nil {
		return err
	}
	defer rt.Close()

	if set != "" {
		if _, ok := rt.catalog.Get(set); !ok {
			return fmt.Errorf("unknown question set %q", set)
		}
	}

	rt.logger.Info("starting tui", "camera", rt.cfg.Camera.Source, "recognizer", rt.recognizer.Name())
	err = app.Run(app.Options{
		Home: home.Deps{
			Catalog: rt.catalog,
			Events:  rt.store.EventRepo(),
			Quiz:    rt.newController,
		},
		Learner:     learner,
		QuestionSet: set,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "see", logPath, "for details")
	}
	return err
}

func tuiLogPath() (string, error) {
	dir, err := store.DataDir()
	if err != nil {
		return "", fmt.Errorf("resolve data directory: %w", err)
	}
	p := filepath.Join(dir, "edusign.log")
	if err := store.EnsureDir(p); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return p, nil
}
