package service

import (
	"context"
	"fmt"

	"alcyxob/coach-dashboard/internal/domain"
	"alcyxob/coach-dashboard/internal/snapshot"
)

// Snapshot captures every collection, including the active insights, as they are now.
func (r *registry) Snapshot(ctx context.Context) (snapshot.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	athletes, err := r.athleteRepo.List(ctx)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	plans, err := r.planRepo.List(ctx)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	sessions, err := r.sessionRepo.List(ctx)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	insights := make([]domain.Insight, len(r.insights))
	copy(insights, r.insights)

	return snapshot.Snapshot{
		Version:       snapshot.CurrentVersion,
		Athletes:      athletes,
		Insights:      insights,
		TrainingPlans: plans,
		Sessions:      sessions,
	}, nil
}

// Restore replaces the registry's contents with snap. The snapshot is checked in full
// before anything is touched; insights are derived afresh from the restored athletes, so
// the snapshot's own insights are not consulted. Decoders still require their ids to be
// well-formed "<athleteId>:<kind>" keys.
func (r *registry) Restore(ctx context.Context, snap snapshot.Snapshot) error {
	if err := checkSnapshot(snap); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := r.athleteRepo.List(ctx)
	if err != nil {
		return err
	}
	for _, a := range existing {
		if err := r.athleteRepo.Delete(ctx, a.ID); err != nil {
			return fmt.Errorf("clearing athletes: %w", err)
		}
		if _, err := r.planRepo.DeleteByAthleteID(ctx, a.ID); err != nil {
			return fmt.Errorf("clearing plans: %w", err)
		}
		if _, err := r.sessionRepo.DeleteByAthleteID(ctx, a.ID); err != nil {
			return fmt.Errorf("clearing sessions: %w", err)
		}
	}

	for i := range snap.Athletes {
		if err := r.athleteRepo.Create(ctx, &snap.Athletes[i]); err != nil {
			return fmt.Errorf("restoring athlete %s: %w", snap.Athletes[i].ID, err)
		}
	}
	for i := range snap.TrainingPlans {
		if err := r.planRepo.Create(ctx, &snap.TrainingPlans[i]); err != nil {
			return fmt.Errorf("restoring plan %s: %w", snap.TrainingPlans[i].ID, err)
		}
	}
	for i := range snap.Sessions {
		if err := r.sessionRepo.Create(ctx, &snap.Sessions[i]); err != nil {
			return fmt.Errorf("restoring session %s: %w", snap.Sessions[i].ID, err)
		}
	}

	r.logger.Info("snapshot restored",
		"athletes", len(snap.Athletes),
		"plans", len(snap.TrainingPlans),
		"sessions", len(snap.Sessions))
	return r.refresh(ctx)
}

// checkSnapshot rejects duplicate or empty ids, bad enum values and records that point
// at athletes the snapshot does not contain.
func checkSnapshot(snap snapshot.Snapshot) error {
	athletes := make(map[string]struct{}, len(snap.Athletes))
	for _, a := range snap.Athletes {
		if a.ID == "" {
			return fmt.Errorf("%w: athlete without id", ErrValidation)
		}
		if _, dup := athletes[a.ID]; dup {
			return fmt.Errorf("%w: duplicate athlete id %s", ErrValidation, a.ID)
		}
		if err := athleteInputOf(a).Validate(); err != nil {
			return fmt.Errorf("athlete %s: %w", a.ID, err)
		}
		if !a.RAGStatus.IsValid() || a.RecentSessions < 0 {
			return fmt.Errorf("%w: athlete %s has invalid session fields", ErrValidation, a.ID)
		}
		athletes[a.ID] = struct{}{}
	}

	planIDs := make(map[string]struct{}, len(snap.TrainingPlans))
	for _, p := range snap.TrainingPlans {
		if p.ID == "" {
			return fmt.Errorf("%w: training plan without id", ErrValidation)
		}
		if _, dup := planIDs[p.ID]; dup {
			return fmt.Errorf("%w: duplicate training plan id %s", ErrValidation, p.ID)
		}
		if _, ok := athletes[p.AthleteID]; !ok {
			return fmt.Errorf("%w: training plan %s references %s", ErrAthleteNotFound, p.ID, p.AthleteID)
		}
		planIDs[p.ID] = struct{}{}
	}

	sessionIDs := make(map[string]struct{}, len(snap.Sessions))
	for _, s := range snap.Sessions {
		if s.ID == "" {
			return fmt.Errorf("%w: session without id", ErrValidation)
		}
		if _, dup := sessionIDs[s.ID]; dup {
			return fmt.Errorf("%w: duplicate session id %s", ErrValidation, s.ID)
		}
		if !s.RAGStatus.IsValid() {
			return fmt.Errorf("%w: session %s has invalid status", ErrValidation, s.ID)
		}
		if _, ok := athletes[s.AthleteID]; !ok {
			return fmt.Errorf("%w: session %s references %s", ErrAthleteNotFound, s.ID, s.AthleteID)
		}
		sessionIDs[s.ID] = struct{}{}
	}

	return checkSessionHistory(snap)
}

// checkSessionHistory requires every athlete's status and session count to agree with
// their sessions. Sessions are applied in snapshot order, so the last one sets the status.
func checkSessionHistory(snap snapshot.Snapshot) error {
	type history struct {
		count int
		last  domain.RAGStatus
	}
	byAthlete := make(map[string]history, len(snap.Athletes))
	for _, s := range snap.Sessions {
		h := byAthlete[s.AthleteID]
		h.count++
		h.last = s.RAGStatus
		byAthlete[s.AthleteID] = h
	}

	for _, a := range snap.Athletes {
		h, ok := byAthlete[a.ID]
		if !ok {
			if a.RAGStatus != domain.RAGGreen {
				return fmt.Errorf("%w: athlete %s has status %s but no sessions", ErrValidation, a.ID, a.RAGStatus)
			}
			continue
		}
		if a.RecentSessions < h.count {
			return fmt.Errorf("%w: athlete %s counts %d sessions but has %d",
				ErrValidation, a.ID, a.RecentSessions, h.count)
		}
		if a.RAGStatus != h.last {
			return fmt.Errorf("%w: athlete %s has status %s but latest session is %s",
				ErrValidation, a.ID, a.RAGStatus, h.last)
		}
	}
	return nil
}

// athleteInputOf lets a stored athlete go through the same checks as a new one.
func athleteInputOf(a domain.Athlete) AthleteInput {
	return AthleteInput{
		Name:           a.Name,
		Age:            a.Age,
		Gender:         a.Gender,
		Sport:          a.Sport,
		RunningMetrics: a.RunningMetrics,
		TargetRace:     a.TargetRace,
		TargetRaceDate: a.TargetRaceDate,
		TargetTime:     a.TargetTime,
	}
}
