package main

import (
	"os"

	"alcyxob/coach-dashboard/internal/cli"
)

// @title Coach Dashboard API
// @version 1.0
// @description Athlete registry, training plans, session logging and coaching insights.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
