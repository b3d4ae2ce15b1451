// Package cli implements the coachdash commands.
package cli

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"alcyxob/coach-dashboard/internal/config"
	"alcyxob/coach-dashboard/internal/insight"
	"alcyxob/coach-dashboard/internal/repository/memory"
	"alcyxob/coach-dashboard/internal/service"
)

// NewRootCmd builds the top-level command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "coachdash",
		Short:        "Coaching dashboard for endurance athletes",
		Long:         "Tracks athletes, training plans and completed sessions, and raises insights a coach should act on.",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newInsightsCmd())
	return root
}

// newRegistry wires an in-memory registry from the insight settings.
func newRegistry(cfg config.Config, now func() time.Time, logger *slog.Logger) service.Registry {
	return service.NewRegistry(
		memory.NewAthleteRepository(),
		memory.NewTrainingPlanRepository(),
		memory.NewSessionRepository(),
		service.Options{
			Engine:       insight.NewEngine(cfg.Insights.RaceWindowDays),
			DefaultSport: cfg.Athletes.DefaultSport,
			RecentLimit:  cfg.Insights.RecentSessionsLimit,
			Now:          now,
			NewID:        uuid.NewString,
			Logger:       logger,
		},
	)
}
