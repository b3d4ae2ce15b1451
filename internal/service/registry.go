package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"alcyxob/coach-dashboard/internal/domain"
	"alcyxob/coach-dashboard/internal/insight"
	"alcyxob/coach-dashboard/internal/repository"
	"alcyxob/coach-dashboard/internal/snapshot"
)

// DefaultRecentSessionsLimit matches the detail view's "last five sessions".
const DefaultRecentSessionsLimit = 5

// --- Service Interface ---

// Registry owns athletes, training plans, completed sessions and the active insights
// derived from them.
type Registry interface {
	// Athletes
	AddAthlete(ctx context.Context, in AthleteInput) (*domain.Athlete, error)
	RemoveAthlete(ctx context.Context, athleteID string) error
	Athlete(ctx context.Context, athleteID string) (*domain.Athlete, error)
	Athletes(ctx context.Context) ([]domain.Athlete, error)

	// Plans and sessions
	AddTrainingPlan(ctx context.Context, in TrainingPlanInput) (*domain.TrainingPlan, error)
	TrainingPlans(ctx context.Context, athleteID string) ([]domain.TrainingPlan, error)
	CompleteSession(ctx context.Context, in SessionInput) (*domain.SessionCompletion, error)
	Sessions(ctx context.Context, athleteID string) ([]domain.SessionCompletion, error)
	RecentSessions(ctx context.Context, athleteID string, limit int) ([]domain.SessionCompletion, error)

	// Insights
	Insights(ctx context.Context) []domain.Insight
	AcknowledgeInsight(ctx context.Context, key domain.InsightKey) bool
	UnacknowledgedCount(ctx context.Context) int

	// Snapshots
	Snapshot(ctx context.Context) (snapshot.Snapshot, error)
	Restore(ctx context.Context, snap snapshot.Snapshot) error
}

// Options tune a registry. Zero fields take defaults.
type Options struct {
	Engine       insight.Engine
	DefaultSport string
	RecentLimit  int
	Now          func() time.Time
	NewID        func() string
	Logger       *slog.Logger
}

// --- Service Implementation ---

// registry implements the Registry interface. One lock covers every collection, so a
// mutation and the insight refresh that follows it are observed together.
type registry struct {
	mu           sync.RWMutex
	athleteRepo  repository.AthleteRepository
	planRepo     repository.TrainingPlanRepository
	sessionRepo  repository.SessionRepository
	insights     []domain.Insight // active, unacknowledged
	engine       insight.Engine
	defaultSport string
	recentLimit  int
	now          func() time.Time
	newID        func() string
	logger       *slog.Logger
}

// NewRegistry creates a registry over the given repositories.
func NewRegistry(
	athleteRepo repository.AthleteRepository,
	planRepo repository.TrainingPlanRepository,
	sessionRepo repository.SessionRepository,
	opts Options,
) Registry {
	r := &registry{
		athleteRepo:  athleteRepo,
		planRepo:     planRepo,
		sessionRepo:  sessionRepo,
		engine:       insight.NewEngine(opts.Engine.RaceWindowDays),
		defaultSport: opts.DefaultSport,
		recentLimit:  opts.RecentLimit,
		now:          opts.Now,
		newID:        opts.NewID,
		logger:       opts.Logger,
	}
	if r.defaultSport == "" {
		r.defaultSport = domain.DefaultSport
	}
	if r.recentLimit <= 0 {
		r.recentLimit = DefaultRecentSessionsLimit
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.newID == nil {
		r.newID = uuid.NewString
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// === Athletes ===

// AddAthlete validates the input and stores a new athlete with a fresh id, green
// status and no sessions.
func (r *registry) AddAthlete(ctx context.Context, in AthleteInput) (*domain.Athlete, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	athlete := &domain.Athlete{
		ID:             r.newID(),
		Name:           in.Name,
		Age:            in.Age,
		Gender:         in.Gender,
		Sport:          in.Sport,
		RAGStatus:      domain.RAGGreen,
		RunningMetrics: in.RunningMetrics,
		TargetRace:     in.TargetRace,
		TargetTime:     in.TargetTime,
	}
	if athlete.Sport == "" {
		athlete.Sport = r.defaultSport
	}
	if in.TargetRaceDate != nil {
		d := storedTime(*in.TargetRaceDate)
		athlete.TargetRaceDate = &d
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.athleteRepo.Create(ctx, athlete); err != nil {
		return nil, fmt.Errorf("adding athlete: %w", err)
	}
	r.logger.Info("athlete added", "athlete_id", athlete.ID, "name", athlete.Name)
	if err := r.refresh(ctx); err != nil {
		return nil, err
	}
	return athlete, nil
}

// RemoveAthlete deletes the athlete together with the plans and sessions it owns.
func (r *registry) RemoveAthlete(ctx context.Context, athleteID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.athleteRepo.Delete(ctx, athleteID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAthleteNotFound
		}
		return err
	}
	plans, err := r.planRepo.DeleteByAthleteID(ctx, athleteID)
	if err != nil {
		return fmt.Errorf("removing plans: %w", err)
	}
	sessions, err := r.sessionRepo.DeleteByAthleteID(ctx, athleteID)
	if err != nil {
		return fmt.Errorf("removing sessions: %w", err)
	}
	r.logger.Info("athlete removed", "athlete_id", athleteID, "plans", plans, "sessions", sessions)
	return r.refresh(ctx)
}

// Athlete returns one athlete by id.
func (r *registry) Athlete(ctx context.Context, athleteID string) (*domain.Athlete, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.getAthlete(ctx, athleteID)
}

// Athletes returns every athlete in the order they were added.
func (r *registry) Athletes(ctx context.Context) ([]domain.Athlete, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.athleteRepo.List(ctx)
}

// getAthlete maps a missing athlete to ErrAthleteNotFound. Callers hold the lock.
func (r *registry) getAthlete(ctx context.Context, athleteID string) (*domain.Athlete, error) {
	athlete, err := r.athleteRepo.GetByID(ctx, athleteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAthleteNotFound
		}
		return nil, err
	}
	return athlete, nil
}

// === Plans and sessions ===

// AddTrainingPlan stores a plan for an existing athlete.
func (r *registry) AddTrainingPlan(ctx context.Context, in TrainingPlanInput) (*domain.TrainingPlan, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.getAthlete(ctx, in.AthleteID); err != nil {
		return nil, err
	}
	plan := &domain.TrainingPlan{
		ID:          r.newID(),
		AthleteID:   in.AthleteID,
		Name:        in.Name,
		StartDate:   storedTime(in.StartDate),
		EndDate:     storedTime(in.EndDate),
		Description: in.Description,
	}
	if err := r.planRepo.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("adding training plan: %w", err)
	}
	r.logger.Info("training plan created", "athlete_id", plan.AthleteID, "plan_id", plan.ID)
	return plan, nil
}

// TrainingPlans lists an athlete's plans in creation order.
func (r *registry) TrainingPlans(ctx context.Context, athleteID string) ([]domain.TrainingPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, err := r.getAthlete(ctx, athleteID); err != nil {
		return nil, err
	}
	return r.planRepo.GetByAthleteID(ctx, athleteID)
}

// CompleteSession records a session and, in the same step, moves the athlete's status to
// the session's rating, bumps the session count and stamps the last-session date.
func (r *registry) CompleteSession(ctx context.Context, in SessionInput) (*domain.SessionCompletion, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	athlete, err := r.getAthlete(ctx, in.AthleteID)
	if err != nil {
		return nil, err
	}

	session := &domain.SessionCompletion{
		ID:          r.newID(),
		AthleteID:   in.AthleteID,
		CompletedAt: in.CompletedAt,
		RAGStatus:   in.RAGStatus,
		Notes:       in.Notes,
	}
	if session.CompletedAt.IsZero() {
		session.CompletedAt = r.now()
	}
	session.CompletedAt = storedTime(session.CompletedAt)

	if err := r.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("recording session: %w", err)
	}
	athlete.ApplySession(*session)
	if err := r.athleteRepo.Update(ctx, athlete); err != nil {
		return nil, fmt.Errorf("updating athlete status: %w", err)
	}
	r.logger.Info("session completed",
		"athlete_id", athlete.ID,
		"rag_status", session.RAGStatus,
		"recent_sessions", athlete.RecentSessions)

	if err := r.refresh(ctx); err != nil {
		return nil, err
	}
	return session, nil
}

// Sessions lists an athlete's sessions in the order they were recorded.
func (r *registry) Sessions(ctx context.Context, athleteID string) ([]domain.SessionCompletion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, err := r.getAthlete(ctx, athleteID); err != nil {
		return nil, err
	}
	return r.sessionRepo.GetByAthleteID(ctx, athleteID)
}

// RecentSessions returns up to limit of the athlete's latest sessions, newest first.
// A non-positive limit uses the configured default.
func (r *registry) RecentSessions(ctx context.Context, athleteID string, limit int) ([]domain.SessionCompletion, error) {
	sessions, err := r.Sessions(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = r.recentLimit
	}
	if len(sessions) > limit {
		sessions = sessions[len(sessions)-limit:]
	}
	recent := make([]domain.SessionCompletion, len(sessions))
	for i, s := range sessions {
		recent[len(sessions)-1-i] = s
	}
	return recent, nil
}

// === Insights ===

// Insights returns the active, unacknowledged insights.
func (r *registry) Insights(_ context.Context) []domain.Insight {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Insight, len(r.insights))
	copy(out, r.insights)
	return out
}

// AcknowledgeInsight drops the insight from the active set. It reports whether anything
// was removed; an unknown key is not an error.
func (r *registry) AcknowledgeInsight(_ context.Context, key domain.InsightKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, in := range r.insights {
		if in.ID == key {
			r.insights = append(r.insights[:i], r.insights[i+1:]...)
			r.logger.Debug("insight acknowledged", "insight_id", key.String())
			return true
		}
	}
	return false
}

// UnacknowledgedCount counts the active insights not yet acknowledged.
func (r *registry) UnacknowledgedCount(_ context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, in := range r.insights {
		if !in.Acknowledged {
			n++
		}
	}
	return n
}

// refresh re-derives the whole active set from the current athletes. Earlier
// acknowledgements do not survive: an insight whose condition still holds comes back
// with a new timestamp. Callers hold the write lock.
func (r *registry) refresh(ctx context.Context) error {
	athletes, err := r.athleteRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("listing athletes for insights: %w", err)
	}

	now := r.now()
	seen := make(map[domain.InsightKey]struct{})
	active := make([]domain.Insight, 0, len(athletes))
	for _, a := range athletes {
		for _, in := range r.engine.Evaluate(a, now) {
			if in.Acknowledged {
				continue
			}
			if _, dup := seen[in.ID]; dup {
				continue
			}
			seen[in.ID] = struct{}{}
			active = append(active, in)
		}
	}
	r.insights = active
	r.logger.Debug("insights refreshed", "athletes", len(athletes), "active", len(active))
	return nil
}

// storedTime drops precision below a millisecond, the finest a BSON snapshot can hold.
func storedTime(t time.Time) time.Time {
	return t.Truncate(time.Millisecond)
}
