package memory

import (
	"alcyxob/coach-dashboard/internal/domain"
	"alcyxob/coach-dashboard/internal/repository"
	"context"
)

// sessionRepository implements repository.SessionRepository
type sessionRepository struct {
	sessions []domain.SessionCompletion
	ids      map[string]struct{}
}

// NewSessionRepository creates an empty session repository.
func NewSessionRepository() repository.SessionRepository {
	return &sessionRepository{ids: make(map[string]struct{})}
}

func (r *sessionRepository) Create(_ context.Context, session *domain.SessionCompletion) error {
	if session.ID == "" {
		return repository.ErrMissingID
	}
	if _, exists := r.ids[session.ID]; exists {
		return repository.ErrDuplicateID
	}
	r.ids[session.ID] = struct{}{}
	r.sessions = append(r.sessions, *session)
	return nil
}

// GetByAthleteID returns the athlete's sessions in recording order.
func (r *sessionRepository) GetByAthleteID(_ context.Context, athleteID string) ([]domain.SessionCompletion, error) {
	sessions := []domain.SessionCompletion{}
	for _, s := range r.sessions {
		if s.AthleteID == athleteID {
			sessions = append(sessions, s)
		}
	}
	return sessions, nil
}

func (r *sessionRepository) List(_ context.Context) ([]domain.SessionCompletion, error) {
	sessions := make([]domain.SessionCompletion, len(r.sessions))
	copy(sessions, r.sessions)
	return sessions, nil
}

func (r *sessionRepository) DeleteByAthleteID(_ context.Context, athleteID string) (int, error) {
	kept := r.sessions[:0]
	removed := 0
	for _, s := range r.sessions {
		if s.AthleteID == athleteID {
			delete(r.ids, s.ID)
			removed++
			continue
		}
		kept = append(kept, s)
	}
	r.sessions = kept
	return removed, nil
}
