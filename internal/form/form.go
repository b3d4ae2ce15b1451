// Package form turns raw, string-typed form submissions into validated registry inputs.
package form

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"alcyxob/coach-dashboard/internal/domain"
	"alcyxob/coach-dashboard/internal/service"
)

// dateLayouts are tried in order; date pickers send the first, API clients the others.
var dateLayouts = []string{"2006-01-02", time.RFC3339, time.RFC3339Nano}

// AthleteForm mirrors the add-athlete dialog: every numeric field arrives as text.
type AthleteForm struct {
	Name           string `json:"name" binding:"required"`
	Age            string `json:"age" binding:"required"`
	Gender         string `json:"gender" binding:"required"`
	Sport          string `json:"sport"`
	VO2MaxVelocity string `json:"vo2MaxVelocity" binding:"required"`
	LT2Velocity    string `json:"lt2Velocity" binding:"required"`
	LTMax          string `json:"ltMax" binding:"required"`
	LT1Velocity    string `json:"lt1Velocity" binding:"required"`
	MaxSprintSpeed string `json:"maxSprintSpeed" binding:"required"`
	MaxLactate     string `json:"maxLactate" binding:"required"`
	TargetRace     string `json:"targetRace" binding:"required"`
	TargetRaceDate string `json:"targetRaceDate"` // optional
	TargetTime     string `json:"targetTime"`
}

// TrainingPlanForm is the create-plan form. The athlete comes from the URL.
type TrainingPlanForm struct {
	Name        string `json:"name" binding:"required"`
	StartDate   string `json:"startDate" binding:"required"`
	EndDate     string `json:"endDate" binding:"required"`
	Description string `json:"description"`
}

// SessionForm is the complete-session form. An empty CompletedAt means "now".
type SessionForm struct {
	RAGStatus   string `json:"ragStatus" binding:"required"`
	CompletedAt string `json:"completedAt"`
	Notes       string `json:"notes"`
}

// ParseAthlete converts and validates an add-athlete submission.
func ParseAthlete(f AthleteForm) (service.AthleteInput, error) {
	p := parser{}
	in := service.AthleteInput{
		Name:   strings.TrimSpace(f.Name),
		Age:    p.integer("age", f.Age),
		Gender: domain.Gender(strings.ToLower(strings.TrimSpace(f.Gender))),
		Sport:  strings.TrimSpace(f.Sport),
		RunningMetrics: domain.RunningMetrics{
			VO2MaxVelocity: p.number("vo2MaxVelocity", f.VO2MaxVelocity),
			LT2Velocity:    p.number("lt2Velocity", f.LT2Velocity),
			LTMax:          p.number("ltMax", f.LTMax),
			LT1Velocity:    p.number("lt1Velocity", f.LT1Velocity),
			MaxSprintSpeed: p.number("maxSprintSpeed", f.MaxSprintSpeed),
			MaxLactate:     p.number("maxLactate", f.MaxLactate),
		},
		TargetRace:     domain.TargetRace(strings.TrimSpace(f.TargetRace)),
		TargetRaceDate: p.optionalDate("targetRaceDate", f.TargetRaceDate),
		TargetTime:     strings.TrimSpace(f.TargetTime),
	}
	if p.err != nil {
		return service.AthleteInput{}, p.err
	}
	if err := in.Validate(); err != nil {
		return service.AthleteInput{}, err
	}
	return in, nil
}

// ParseTrainingPlan converts and validates a create-plan submission for athleteID.
func ParseTrainingPlan(athleteID string, f TrainingPlanForm) (service.TrainingPlanInput, error) {
	p := parser{}
	in := service.TrainingPlanInput{
		AthleteID:   athleteID,
		Name:        strings.TrimSpace(f.Name),
		StartDate:   p.date("startDate", f.StartDate),
		EndDate:     p.date("endDate", f.EndDate),
		Description: strings.TrimSpace(f.Description),
	}
	if p.err != nil {
		return service.TrainingPlanInput{}, p.err
	}
	if err := in.Validate(); err != nil {
		return service.TrainingPlanInput{}, err
	}
	return in, nil
}

// ParseSession converts and validates a complete-session submission for athleteID.
func ParseSession(athleteID string, f SessionForm) (service.SessionInput, error) {
	p := parser{}
	in := service.SessionInput{
		AthleteID: athleteID,
		RAGStatus: domain.RAGStatus(strings.ToLower(strings.TrimSpace(f.RAGStatus))),
		Notes:     strings.TrimSpace(f.Notes),
	}
	if completed := p.optionalDate("completedAt", f.CompletedAt); completed != nil {
		in.CompletedAt = *completed
	}
	if p.err != nil {
		return service.SessionInput{}, p.err
	}
	if err := in.Validate(); err != nil {
		return service.SessionInput{}, err
	}
	return in, nil
}

// parser keeps the first conversion error so a form can be read field by field.
type parser struct {
	err error
}

func (p *parser) fail(field, raw string, what string) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: %s %q is not %s", service.ErrValidation, field, raw, what)
	}
}

func (p *parser) integer(field, raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		p.fail(field, raw, "a whole number")
		return 0
	}
	return n
}

func (p *parser) number(field, raw string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		p.fail(field, raw, "a number")
		return 0
	}
	return f
}

func (p *parser) date(field, raw string) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	p.fail(field, raw, "a date")
	return time.Time{}
}

func (p *parser) optionalDate(field, raw string) *time.Time {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	t := p.date(field, raw)
	if t.IsZero() {
		return nil
	}
	return &t
}
