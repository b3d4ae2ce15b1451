package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"alcyxob/coach-dashboard/internal/domain"
	"alcyxob/coach-dashboard/internal/snapshot"
)

func writeSnapshot(t *testing.T, snap snapshot.Snapshot) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, snapshot.EncodeJSON(f, snap))
	return path
}

var metrics = domain.RunningMetrics{
	VO2MaxVelocity: 5.5, LT2Velocity: 4.7, LTMax: 4.0,
	LT1Velocity: 4.0, MaxSprintSpeed: 8.9, MaxLactate: 12.5,
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestInsightsCommand(t *testing.T) {
	race := time.Date(2025, 3, 21, 9, 0, 0, 0, time.UTC)
	last := time.Date(2025, 2, 27, 7, 0, 0, 0, time.UTC)
	path := writeSnapshot(t, snapshot.Snapshot{
		Version: snapshot.CurrentVersion,
		Athletes: []domain.Athlete{
			{ID: "a1", Name: "Ana", Age: 24, Gender: domain.GenderFemale, RunningMetrics: metrics, RAGStatus: domain.RAGGreen, TargetRace: domain.Race5k},
			{
				ID: "a2", Name: "Ben", Age: 29, Gender: domain.GenderMale, RunningMetrics: metrics, RAGStatus: domain.RAGRed,
				RecentSessions: 1, LastSessionDate: &last,
				TargetRace: domain.Race10k, TargetRaceDate: &race,
			},
		},
		Sessions: []domain.SessionCompletion{
			{ID: "s1", AthleteID: "a2", CompletedAt: last, RAGStatus: domain.RAGRed},
		},
	})

	out, err := runRoot(t, "insights", "--snapshot", path, "--now", "2025-03-01T08:00:00Z")
	require.NoError(t, err)

	var insights []domain.Insight
	require.NoError(t, json.Unmarshal([]byte(out), &insights))
	keys := make([]string, len(insights))
	for i, in := range insights {
		keys[i] = in.ID.String()
	}
	assert.ElementsMatch(t, []string{"a1:no-sessions", "a2:red-status", "a2:race-approaching"}, keys)
}

func TestInsightsCommand_RaceWindow(t *testing.T) {
	race := time.Date(2025, 3, 21, 9, 0, 0, 0, time.UTC)
	last := time.Date(2025, 2, 27, 7, 0, 0, 0, time.UTC)
	path := writeSnapshot(t, snapshot.Snapshot{
		Version: snapshot.CurrentVersion,
		Athletes: []domain.Athlete{{
			ID: "a1", Name: "Ana", Age: 24, Gender: domain.GenderFemale, RunningMetrics: metrics, RAGStatus: domain.RAGGreen,
			RecentSessions: 3, LastSessionDate: &last,
			TargetRace: domain.RaceMarathon, TargetRaceDate: &race,
		}},
	})

	out, err := runRoot(t, "insights", "-s", path, "--now", "2025-03-01T08:00:00Z", "--race-window", "7")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}

func TestInsightsCommand_YAML(t *testing.T) {
	path := writeSnapshot(t, snapshot.Snapshot{
		Version:  snapshot.CurrentVersion,
		Athletes: []domain.Athlete{{ID: "a1", Name: "Ana", Age: 24, Gender: domain.GenderFemale, RunningMetrics: metrics, RAGStatus: domain.RAGGreen, TargetRace: domain.Race5k}},
	})

	out, err := runRoot(t, "insights", "-s", path, "--now", "2025-03-01T08:00:00Z", "--format", "yaml")
	require.NoError(t, err)

	var insights []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &insights))
	require.Len(t, insights, 1)
	assert.Equal(t, "a1:no-sessions", insights[0]["id"])
	assert.Equal(t, "info", insights[0]["type"])
	assert.Equal(t, "Ana hasn't logged any training sessions yet.", insights[0]["message"])

	_, err = runRoot(t, "insights", "-s", path, "--format", "xml")
	assert.Error(t, err)
}

func TestInsightsCommand_Errors(t *testing.T) {
	_, err := runRoot(t, "insights")
	assert.Error(t, err)

	_, err = runRoot(t, "insights", "--snapshot", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := writeSnapshot(t, snapshot.Snapshot{Version: snapshot.CurrentVersion})
	_, err = runRoot(t, "insights", "--snapshot", path, "--now", "yesterday")
	assert.Error(t, err)
}
