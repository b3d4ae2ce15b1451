// internal/repository/memory/training_plan_repo.go
package memory

import (
	"alcyxob/coach-dashboard/internal/domain"
	"alcyxob/coach-dashboard/internal/repository"
	"context"
)

// trainingPlanRepository implements repository.TrainingPlanRepository
type trainingPlanRepository struct {
	plans []domain.TrainingPlan
	ids   map[string]struct{}
}

// NewTrainingPlanRepository creates an empty TrainingPlan repository.
func NewTrainingPlanRepository() repository.TrainingPlanRepository {
	return &trainingPlanRepository{ids: make(map[string]struct{})}
}

// Create appends a training plan.
func (r *trainingPlanRepository) Create(_ context.Context, plan *domain.TrainingPlan) error {
	if plan.ID == "" {
		return repository.ErrMissingID
	}
	if _, exists := r.ids[plan.ID]; exists {
		return repository.ErrDuplicateID
	}
	r.ids[plan.ID] = struct{}{}
	r.plans = append(r.plans, *plan)
	return nil
}

// GetByAthleteID retrieves all plans for one athlete in creation order.
// Returns an empty slice if there are none.
func (r *trainingPlanRepository) GetByAthleteID(_ context.Context, athleteID string) ([]domain.TrainingPlan, error) {
	plans := []domain.TrainingPlan{}
	for _, p := range r.plans {
		if p.AthleteID == athleteID {
			plans = append(plans, p)
		}
	}
	return plans, nil
}

// List returns every plan in creation order.
func (r *trainingPlanRepository) List(_ context.Context) ([]domain.TrainingPlan, error) {
	plans := make([]domain.TrainingPlan, len(r.plans))
	copy(plans, r.plans)
	return plans, nil
}

// DeleteByAthleteID drops every plan owned by the athlete and reports how many went.
func (r *trainingPlanRepository) DeleteByAthleteID(_ context.Context, athleteID string) (int, error) {
	kept := r.plans[:0]
	removed := 0
	for _, p := range r.plans {
		if p.AthleteID == athleteID {
			delete(r.ids, p.ID)
			removed++
			continue
		}
		kept = append(kept, p)
	}
	r.plans = kept
	return removed, nil
}
