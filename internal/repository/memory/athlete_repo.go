// Package memory implements the repository interfaces over process memory.
// Repositories do not lock; callers serialise access.
package memory

import (
	"alcyxob/coach-dashboard/internal/domain"
	"alcyxob/coach-dashboard/internal/repository"
	"context"
)

// athleteRepository implements repository.AthleteRepository
type athleteRepository struct {
	order []string // ids in insertion order
	byID  map[string]*domain.Athlete
}

// NewAthleteRepository creates an empty athlete repository.
func NewAthleteRepository() repository.AthleteRepository {
	return &athleteRepository{byID: make(map[string]*domain.Athlete)}
}

// Create stores a copy of the athlete. The id must be set and unused.
func (r *athleteRepository) Create(_ context.Context, athlete *domain.Athlete) error {
	if athlete.ID == "" {
		return repository.ErrMissingID
	}
	if _, exists := r.byID[athlete.ID]; exists {
		return repository.ErrDuplicateID
	}
	stored := athlete.Clone()
	r.byID[athlete.ID] = &stored
	r.order = append(r.order, athlete.ID)
	return nil
}

// GetByID returns a copy of the athlete with the given id.
func (r *athleteRepository) GetByID(_ context.Context, id string) (*domain.Athlete, error) {
	stored, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	a := stored.Clone()
	return &a, nil
}

// List returns copies of all athletes, oldest first.
func (r *athleteRepository) List(_ context.Context) ([]domain.Athlete, error) {
	athletes := make([]domain.Athlete, 0, len(r.order))
	for _, id := range r.order {
		athletes = append(athletes, r.byID[id].Clone())
	}
	return athletes, nil
}

// Update replaces the stored athlete with the same id.
func (r *athleteRepository) Update(_ context.Context, athlete *domain.Athlete) error {
	if athlete.ID == "" {
		return repository.ErrMissingID
	}
	if _, ok := r.byID[athlete.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := athlete.Clone()
	r.byID[athlete.ID] = &stored
	return nil
}

// Delete removes the athlete with the given id.
func (r *athleteRepository) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
