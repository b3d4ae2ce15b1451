package service

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"alcyxob/coach-dashboard/internal/domain"
)

// --- Error Definitions ---
var (
	ErrValidation      = errors.New("validation failed")
	ErrAthleteNotFound = errors.New("athlete not found")
)

// enumValue is satisfied by the domain's string enums.
type enumValue interface {
	IsValid() bool
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// "enum" defers to the domain type's own IsValid.
	_ = v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
		e, ok := fl.Field().Interface().(enumValue)
		return ok && e.IsValid()
	})
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	return v
}

// AthleteInput carries the fields the coach supplies when adding an athlete.
type AthleteInput struct {
	Name           string                `validate:"required"`
	Age            int                   `validate:"gt=0"`
	Gender         domain.Gender         `validate:"enum"`
	Sport          string                // defaults to the registry's default sport
	RunningMetrics domain.RunningMetrics `validate:"required"`
	TargetRace     domain.TargetRace     `validate:"enum"`
	TargetRaceDate *time.Time
	TargetTime     string
}

// TrainingPlanInput describes a new plan for an existing athlete.
type TrainingPlanInput struct {
	AthleteID   string    `validate:"required"`
	Name        string    `validate:"required"`
	StartDate   time.Time `validate:"required"`
	EndDate     time.Time `validate:"required,gtefield=StartDate"`
	Description string
}

// SessionInput records one completed session. A zero CompletedAt means "now".
type SessionInput struct {
	AthleteID   string `validate:"required"`
	CompletedAt time.Time
	RAGStatus   domain.RAGStatus `validate:"enum"`
	Notes       string
}

// Validate checks the input, including every running metric.
func (in AthleteInput) Validate() error {
	if err := check(in); err != nil {
		return err
	}
	m := in.RunningMetrics
	metrics := []struct {
		name  string
		value float64
	}{
		{"vo2MaxVelocity", m.VO2MaxVelocity},
		{"lt2Velocity", m.LT2Velocity},
		{"ltMax", m.LTMax},
		{"lt1Velocity", m.LT1Velocity},
		{"maxSprintSpeed", m.MaxSprintSpeed},
		{"maxLactate", m.MaxLactate},
	}
	for _, metric := range metrics {
		if err := validate.Var(metric.value, "finite,gt=0"); err != nil {
			return fmt.Errorf("%w: %s must be a positive number", ErrValidation, metric.name)
		}
	}
	return nil
}

// Validate checks required fields and the date range.
func (in TrainingPlanInput) Validate() error { return check(in) }

// Validate checks the athlete reference and the RAG rating.
func (in SessionInput) Validate() error { return check(in) }

// check runs struct validation and folds the result into ErrValidation.
func check(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(fields, ", "))
}
