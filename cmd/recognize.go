package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/edusign/edusign/internal/camera"
	"github.com/edusign/edusign/internal/recognition"
)

var recognizeCmd = &cobra.Command{
	Use:   "recognize <image...>",
	Short: "Submit images as one capture and print the verdict",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		expect, _ := cmd.Flags().GetString("expect")
		asJSON, _ := cmd.Flags().GetBool("json")

		rt, err := newRuntime(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer rt.Close()

		enc := rt.encoder()
		frames := make([]string, 0, len(args))
		for _, path := range args {
			img, err := camera.LoadImage(path)
			if err != nil {
				return fmt.Errorf("load %s: %w", path, err)
			}
			frame, err := enc.Encode(img)
			if err != nil {
				return fmt.Errorf("encode %s: %w", path, err)
			}
			frames = append(frames, frame)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), rt.cfg.Quiz.SubmitTimeout)
		defer cancel()

		v, err := rt.recognizer.Recognize(ctx, recognition.Request{Frames: frames, ExpectedSign: expect})
		if err != nil {
			return fmt.Errorf("recognize: %w", err)
		}

		if asJSON {
			out := json.NewEncoder(os.Stdout)
			out.SetIndent("", "  ")
			return out.Encode(v)
		}

		mark := "✓"
		if !v.IsCorrect {
			mark = "✗"
		}
		fmt.Printf("%s expected %q, saw %q (%.0f%% confident)\n", mark, expect, v.PredictedSign, v.Confidence*100)
		if v.Message != "" {
			fmt.Println(v.Message)
		}
		return nil
	},
}

func init() {
	recognizeCmd.Flags().StringP("expect", "e", "", "Expected sign (required)")
	recognizeCmd.Flags().Bool("json", false, "Print the raw verdict as JSON")
	_ = recognizeCmd.MarkFlagRequired("expect")
}
