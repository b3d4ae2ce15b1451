package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"alcyxob/coach-dashboard/internal/domain"
	"alcyxob/coach-dashboard/internal/form"
	"alcyxob/coach-dashboard/internal/insight"
	"alcyxob/coach-dashboard/internal/service"
)

// AthleteHandler serves athletes and the plans and sessions they own.
type AthleteHandler struct {
	registry service.Registry
	now      func() time.Time
}

// NewAthleteHandler creates a new AthleteHandler.
func NewAthleteHandler(registry service.Registry) *AthleteHandler {
	return &AthleteHandler{registry: registry, now: time.Now}
}

// --- DTOs ---

// MetricsDisplay holds the running metrics formatted in the requested unit.
type MetricsDisplay struct {
	Unit           domain.VelocityUnit `json:"unit"`
	VO2MaxVelocity string              `json:"vo2MaxVelocity"`
	LT2Velocity    string              `json:"lt2Velocity"`
	LT1Velocity    string              `json:"lt1Velocity"`
	MaxSprintSpeed string              `json:"maxSprintSpeed"`
	LTMax          string              `json:"ltMax"`
	MaxLactate     string              `json:"maxLactate"`
}

// AthleteResponse is an athlete plus presentation helpers.
type AthleteResponse struct {
	domain.Athlete
	DaysUntilRace *int           `json:"daysUntilRace,omitempty"`
	Display       MetricsDisplay `json:"display"`
}

// AthleteDetailResponse backs the athlete detail view.
type AthleteDetailResponse struct {
	Athlete        AthleteResponse            `json:"athlete"`
	TrainingPlans  []domain.TrainingPlan      `json:"trainingPlans"`
	RecentSessions []domain.SessionCompletion `json:"recentSessions"`
}

// MapAthleteToResponse converts a domain.Athlete to AthleteResponse.
func MapAthleteToResponse(a domain.Athlete, unit domain.VelocityUnit, now time.Time) AthleteResponse {
	m := a.RunningMetrics
	resp := AthleteResponse{
		Athlete: a,
		Display: MetricsDisplay{
			Unit:           unit,
			VO2MaxVelocity: domain.FormatVelocity(m.VO2MaxVelocity, unit),
			LT2Velocity:    domain.FormatVelocity(m.LT2Velocity, unit),
			LT1Velocity:    domain.FormatVelocity(m.LT1Velocity, unit),
			MaxSprintSpeed: domain.FormatVelocity(m.MaxSprintSpeed, unit),
			LTMax:          domain.FormatLactate(m.LTMax),
			MaxLactate:     domain.FormatLactate(m.MaxLactate),
		},
	}
	if a.TargetRaceDate != nil {
		days := insight.DaysUntil(*a.TargetRaceDate, now)
		resp.DaysUntilRace = &days
	}
	return resp
}

// velocityUnit reads ?units=, defaulting to m/s.
func velocityUnit(c *gin.Context) (domain.VelocityUnit, bool) {
	switch unit := domain.VelocityUnit(c.DefaultQuery("units", string(domain.UnitMetersPerSecond))); unit {
	case domain.UnitMetersPerSecond, domain.UnitMinPerKm:
		return unit, true
	default:
		abortWithError(c, http.StatusBadRequest, "units must be m_per_s or min_per_km")
		return "", false
	}
}

// --- Handler Methods ---

// AddAthlete godoc
// @Summary Add an athlete
// @Description Parses the add-athlete form (numeric fields as text) and registers the athlete.
// @Tags Athletes
// @Accept json
// @Produce json
// @Param athlete body form.AthleteForm true "Athlete details"
// @Success 201 {object} AthleteResponse
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Router /athletes [post]
func (h *AthleteHandler) AddAthlete(c *gin.Context) {
	var req form.AthleteForm
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	in, err := form.ParseAthlete(req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	athlete, err := h.registry.AddAthlete(c.Request.Context(), in)
	if err != nil {
		abortWithServiceError(c, err, "Failed to add athlete.")
		return
	}
	c.JSON(http.StatusCreated, MapAthleteToResponse(*athlete, domain.UnitMetersPerSecond, h.now()))
}

// ListAthletes godoc
// @Summary List athletes
// @Tags Athletes
// @Produce json
// @Param units query string false "m_per_s (default) or min_per_km"
// @Success 200 {array} AthleteResponse
// @Router /athletes [get]
func (h *AthleteHandler) ListAthletes(c *gin.Context) {
	unit, ok := velocityUnit(c)
	if !ok {
		return
	}
	athletes, err := h.registry.Athletes(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve athletes.")
		return
	}

	now := h.now()
	responses := make([]AthleteResponse, len(athletes))
	for i, a := range athletes {
		responses[i] = MapAthleteToResponse(a, unit, now)
	}
	c.JSON(http.StatusOK, responses)
}

// GetAthlete godoc
// @Summary Athlete detail view: the athlete, their plans and latest sessions
// @Tags Athletes
// @Produce json
// @Param athleteId path string true "Athlete ID"
// @Param units query string false "m_per_s (default) or min_per_km"
// @Param limit query int false "Number of recent sessions"
// @Success 200 {object} AthleteDetailResponse
// @Failure 404 {object} gin.H "Athlete not found"
// @Router /athletes/{athleteId} [get]
func (h *AthleteHandler) GetAthlete(c *gin.Context) {
	unit, ok := velocityUnit(c)
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			abortWithError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	ctx := c.Request.Context()
	athleteID := c.Param("athleteId")
	athlete, err := h.registry.Athlete(ctx, athleteID)
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve athlete.")
		return
	}
	plans, err := h.registry.TrainingPlans(ctx, athleteID)
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve training plans.")
		return
	}
	recent, err := h.registry.RecentSessions(ctx, athleteID, limit)
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve sessions.")
		return
	}

	c.JSON(http.StatusOK, AthleteDetailResponse{
		Athlete:        MapAthleteToResponse(*athlete, unit, h.now()),
		TrainingPlans:  plans,
		RecentSessions: recent,
	})
}

// RemoveAthlete deletes an athlete with their plans and sessions.
func (h *AthleteHandler) RemoveAthlete(c *gin.Context) {
	if err := h.registry.RemoveAthlete(c.Request.Context(), c.Param("athleteId")); err != nil {
		abortWithServiceError(c, err, "Failed to remove athlete.")
		return
	}
	c.Status(http.StatusNoContent)
}

// AddTrainingPlan godoc
// @Summary Create a training plan for an athlete
// @Tags Training Plans
// @Accept json
// @Produce json
// @Param athleteId path string true "Athlete ID"
// @Param plan body form.TrainingPlanForm true "Plan details"
// @Success 201 {object} domain.TrainingPlan
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Athlete not found"
// @Router /athletes/{athleteId}/plans [post]
func (h *AthleteHandler) AddTrainingPlan(c *gin.Context) {
	var req form.TrainingPlanForm
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	in, err := form.ParseTrainingPlan(c.Param("athleteId"), req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.registry.AddTrainingPlan(c.Request.Context(), in)
	if err != nil {
		abortWithServiceError(c, err, "Failed to create training plan.")
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// ListTrainingPlans returns an athlete's plans.
func (h *AthleteHandler) ListTrainingPlans(c *gin.Context) {
	plans, err := h.registry.TrainingPlans(c.Request.Context(), c.Param("athleteId"))
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve training plans.")
		return
	}
	c.JSON(http.StatusOK, plans)
}

// CompleteSession godoc
// @Summary Record a completed session
// @Description Stores the session and moves the athlete's RAG status to the session's rating.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param athleteId path string true "Athlete ID"
// @Param session body form.SessionForm true "Session details"
// @Success 201 {object} domain.SessionCompletion
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Athlete not found"
// @Router /athletes/{athleteId}/sessions [post]
func (h *AthleteHandler) CompleteSession(c *gin.Context) {
	var req form.SessionForm
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	in, err := form.ParseSession(c.Param("athleteId"), req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.registry.CompleteSession(c.Request.Context(), in)
	if err != nil {
		abortWithServiceError(c, err, "Failed to complete session.")
		return
	}
	c.JSON(http.StatusCreated, session)
}

// ListSessions returns an athlete's sessions, oldest first.
func (h *AthleteHandler) ListSessions(c *gin.Context) {
	sessions, err := h.registry.Sessions(c.Request.Context(), c.Param("athleteId"))
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve sessions.")
		return
	}
	c.JSON(http.StatusOK, sessions)
}
