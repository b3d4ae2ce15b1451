package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"alcyxob/coach-dashboard/internal/config"
	"alcyxob/coach-dashboard/internal/snapshot"
)

func newInsightsCmd() *cobra.Command {
	var (
		snapshotPath string
		nowFlag      string
		raceWindow   int
		format       string
	)
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Evaluate insights for a snapshot file and print them as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if nowFlag != "" {
				t, err := time.Parse(time.RFC3339, nowFlag)
				if err != nil {
					return fmt.Errorf("--now must be RFC3339: %w", err)
				}
				now = t
			}
			if format != "json" && format != "yaml" {
				return fmt.Errorf("--format must be json or yaml, got %q", format)
			}
			return runInsights(cmd, cmd.OutOrStdout(), snapshotPath, now, raceWindow, format)
		},
	}
	cmd.Flags().StringVarP(&snapshotPath, "snapshot", "s", "", "Snapshot file (JSON) to evaluate (required)")
	cmd.Flags().StringVar(&nowFlag, "now", "", "Evaluation time in RFC3339 (default: current time)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().IntVar(&raceWindow, "race-window", 30, "Days ahead of a target race that raise a reminder")
	_ = cmd.MarkFlagRequired("snapshot")
	return cmd
}

func runInsights(cmd *cobra.Command, out io.Writer, path string, now time.Time, raceWindow int, format string) error {
	snap, err := snapshot.ReadFile(path)
	if err != nil {
		return err
	}

	cfg := config.Config{
		Athletes: config.AthletesConfig{DefaultSport: "Running"},
		Insights: config.InsightsConfig{RaceWindowDays: raceWindow},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := newRegistry(cfg, func() time.Time { return now }, logger)
	if err := registry.Restore(cmd.Context(), snap); err != nil {
		return fmt.Errorf("restoring snapshot: %w", err)
	}

	insights := registry.Insights(cmd.Context())
	if format == "yaml" {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(insights); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(insights)
}
