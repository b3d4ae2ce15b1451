package repository

import (
	"alcyxob/coach-dashboard/internal/domain"
	"context"
)

// Error constants for the repository layer
var (
	ErrNotFound    = RepositoryError("not found")
	ErrDuplicateID = RepositoryError("duplicate id")
	ErrMissingID   = RepositoryError("id is required")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// AthleteRepository holds athletes in insertion order.
type AthleteRepository interface {
	Create(ctx context.Context, athlete *domain.Athlete) error
	GetByID(ctx context.Context, id string) (*domain.Athlete, error)
	List(ctx context.Context) ([]domain.Athlete, error)
	Update(ctx context.Context, athlete *domain.Athlete) error
	Delete(ctx context.Context, id string) error
}

// TrainingPlanRepository holds training plans. Plans are append-only apart from
// removal alongside their athlete.
type TrainingPlanRepository interface {
	Create(ctx context.Context, plan *domain.TrainingPlan) error
	GetByAthleteID(ctx context.Context, athleteID string) ([]domain.TrainingPlan, error)
	List(ctx context.Context) ([]domain.TrainingPlan, error)
	DeleteByAthleteID(ctx context.Context, athleteID string) (int, error)
}

// SessionRepository holds completed sessions in the order they were recorded.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.SessionCompletion) error
	GetByAthleteID(ctx context.Context, athleteID string) ([]domain.SessionCompletion, error)
	List(ctx context.Context) ([]domain.SessionCompletion, error)
	DeleteByAthleteID(ctx context.Context, athleteID string) (int, error)
}
