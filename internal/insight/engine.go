// Package insight derives advisory notifications from an athlete snapshot.
package insight

import (
	"fmt"
	"math"
	"time"

	"alcyxob/coach-dashboard/internal/domain"
)

// DefaultRaceWindowDays is how far ahead a target race triggers a reminder.
const DefaultRaceWindowDays = 30

const msPerDay = 24 * 60 * 60 * 1000

// Engine evaluates the advisory checks. The zero value uses DefaultRaceWindowDays.
type Engine struct {
	RaceWindowDays int
}

// NewEngine returns an engine with the given race window; non-positive values fall back
// to DefaultRaceWindowDays.
func NewEngine(raceWindowDays int) Engine {
	if raceWindowDays <= 0 {
		raceWindowDays = DefaultRaceWindowDays
	}
	return Engine{RaceWindowDays: raceWindowDays}
}

// Evaluate runs the default engine over one athlete.
func Evaluate(a domain.Athlete, now time.Time) []domain.Insight {
	return Engine{}.Evaluate(a, now)
}

// Evaluate returns the insights that hold for a at the instant now, in the fixed order
// inactivity, status alert, race approaching. It never reads the clock.
func (e Engine) Evaluate(a domain.Athlete, now time.Time) []domain.Insight {
	var insights []domain.Insight

	if a.RecentSessions == 0 {
		insights = append(insights, newInsight(a, domain.InsightNoSessions, domain.SeverityInfo, now,
			fmt.Sprintf("%s hasn't logged any training sessions yet.", a.Name)))
	}

	if a.RAGStatus == domain.RAGRed {
		insights = append(insights, newInsight(a, domain.InsightRedStatus, domain.SeverityWarning, now,
			fmt.Sprintf("%s is showing red performance indicators. Review recent sessions.", a.Name)))
	}

	if a.TargetRaceDate != nil {
		days := DaysUntil(*a.TargetRaceDate, now)
		if days > 0 && days <= e.window() {
			insights = append(insights, newInsight(a, domain.InsightRaceApproaching, domain.SeverityInfo, now,
				fmt.Sprintf("%s's %s is in %d days!", a.Name, a.TargetRace, days)))
		}
	}

	return insights
}

func (e Engine) window() int {
	if e.RaceWindowDays <= 0 {
		return DefaultRaceWindowDays
	}
	return e.RaceWindowDays
}

// DaysUntil is the ceiling of the millisecond difference between target and now, in days.
// Past instants give zero or a negative count.
func DaysUntil(target, now time.Time) int {
	ms := target.Sub(now).Milliseconds()
	return int(math.Ceil(float64(ms) / msPerDay))
}

func newInsight(a domain.Athlete, kind domain.InsightKind, sev domain.Severity, now time.Time, msg string) domain.Insight {
	return domain.Insight{
		ID:        domain.InsightKey{AthleteID: a.ID, Kind: kind},
		AthleteID: a.ID,
		Severity:  sev,
		Message:   msg,
		CreatedAt: now,
	}
}
