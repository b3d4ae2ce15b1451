package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/coach-dashboard/internal/domain"
	"alcyxob/coach-dashboard/internal/repository/memory"
	"alcyxob/coach-dashboard/internal/service"
	"alcyxob/coach-dashboard/internal/snapshot"
)

var testNow = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	n := 0
	registry := service.NewRegistry(
		memory.NewAthleteRepository(),
		memory.NewTrainingPlanRepository(),
		memory.NewSessionRepository(),
		service.Options{
			Now: func() time.Time { return testNow },
			NewID: func() string {
				n++
				return fmt.Sprintf("id-%d", n)
			},
			Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		},
	)
	return NewRouter(registry, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func athleteForm(name string) map[string]string {
	return map[string]string{
		"name":           name,
		"age":            "27",
		"gender":         "male",
		"vo2MaxVelocity": "5.5",
		"lt2Velocity":    "4.7",
		"ltMax":          "4.0",
		"lt1Velocity":    "4.0",
		"maxSprintSpeed": "8.9",
		"maxLactate":     "12.5",
		"targetRace":     "1500m",
		"targetTime":     "3:59",
	}
}

func addAthlete(t *testing.T, router http.Handler, name string) AthleteResponse {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/athletes", athleteForm(name))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp AthleteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func listInsights(t *testing.T, router http.Handler) InsightsResponse {
	t.Helper()
	w := doJSON(t, router, http.MethodGet, "/api/v1/insights", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp InsightsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestPing(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestAddAthlete(t *testing.T) {
	router := newTestRouter(t)

	resp := addAthlete(t, router, "Ana")
	assert.Equal(t, "id-1", resp.ID)
	assert.Equal(t, "Running", resp.Sport)
	assert.Equal(t, domain.RAGGreen, resp.RAGStatus)
	assert.Equal(t, 0, resp.RecentSessions)
	assert.Equal(t, "5.50 m/s", resp.Display.VO2MaxVelocity)
	assert.Equal(t, "4.0 mmol/L", resp.Display.LTMax)
	assert.Nil(t, resp.DaysUntilRace)

	insights := listInsights(t, router)
	assert.Equal(t, 1, insights.Unacknowledged)
	require.Len(t, insights.Insights, 1)
	assert.Equal(t, "Ana hasn't logged any training sessions yet.", insights.Insights[0].Message)
}

func TestAddAthlete_BadInput(t *testing.T) {
	router := newTestRouter(t)

	missing := athleteForm("Ana")
	delete(missing, "age")
	w := doJSON(t, router, http.MethodPost, "/api/v1/athletes", missing)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	notNumeric := athleteForm("Ana")
	notNumeric["ltMax"] = "lots"
	w = doJSON(t, router, http.MethodPost, "/api/v1/athletes", notNumeric)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	badRace := athleteForm("Ana")
	badRace["targetRace"] = "ultra"
	w = doJSON(t, router, http.MethodPost, "/api/v1/athletes", badRace)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/athletes", nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListAthletes_Units(t *testing.T) {
	router := newTestRouter(t)
	addAthlete(t, router, "Ana")

	w := doJSON(t, router, http.MethodGet, "/api/v1/athletes?units=min_per_km", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var athletes []AthleteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &athletes))
	require.Len(t, athletes, 1)
	assert.Equal(t, domain.UnitMinPerKm, athletes[0].Display.Unit)
	assert.Equal(t, "3:02 min/km", athletes[0].Display.VO2MaxVelocity)

	w = doJSON(t, router, http.MethodGet, "/api/v1/athletes?units=furlongs", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAthlete_Detail(t *testing.T) {
	router := newTestRouter(t)
	athlete := addAthlete(t, router, "Ana")
	base := "/api/v1/athletes/" + athlete.ID

	w := doJSON(t, router, http.MethodPost, base+"/plans", map[string]string{
		"name":      "Base block",
		"startDate": "2025-03-03",
		"endDate":   "2025-04-27",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	for i, rag := range []string{"green", "amber", "red"} {
		w = doJSON(t, router, http.MethodPost, base+"/sessions", map[string]string{
			"ragStatus":   rag,
			"completedAt": fmt.Sprintf("2025-02-2%dT07:00:00Z", i+1),
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, base+"?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail AthleteDetailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, domain.RAGRed, detail.Athlete.RAGStatus)
	assert.Equal(t, 3, detail.Athlete.RecentSessions)
	require.Len(t, detail.TrainingPlans, 1)
	assert.Equal(t, "Base block", detail.TrainingPlans[0].Name)
	require.Len(t, detail.RecentSessions, 2)
	assert.Equal(t, domain.RAGRed, detail.RecentSessions[0].RAGStatus)
	assert.Equal(t, domain.RAGAmber, detail.RecentSessions[1].RAGStatus)

	w = doJSON(t, router, http.MethodGet, base+"/sessions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sessions []domain.SessionCompletion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sessions))
	assert.Len(t, sessions, 3)

	w = doJSON(t, router, http.MethodGet, base+"?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	insights := listInsights(t, router)
	require.Len(t, insights.Insights, 1)
	assert.Equal(t, domain.InsightKey{AthleteID: athlete.ID, Kind: domain.InsightRedStatus}, insights.Insights[0].ID)
}

func TestUnknownAthlete(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/athletes/nobody", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/athletes/nobody/sessions", map[string]string{"ragStatus": "green"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/athletes/nobody", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvalidPlanAndSession(t *testing.T) {
	router := newTestRouter(t)
	athlete := addAthlete(t, router, "Ana")
	base := "/api/v1/athletes/" + athlete.ID

	w := doJSON(t, router, http.MethodPost, base+"/plans", map[string]string{
		"name":      "Backwards",
		"startDate": "2025-04-27",
		"endDate":   "2025-03-03",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, base+"/sessions", map[string]string{"ragStatus": "purple"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveAthlete(t *testing.T) {
	router := newTestRouter(t)
	athlete := addAthlete(t, router, "Ana")

	w := doJSON(t, router, http.MethodDelete, "/api/v1/athletes/"+athlete.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	assert.Empty(t, listInsights(t, router).Insights)
	w = doJSON(t, router, http.MethodGet, "/api/v1/athletes/"+athlete.ID+"/plans", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAcknowledgeInsight(t *testing.T) {
	router := newTestRouter(t)
	athlete := addAthlete(t, router, "Ana")
	addAthlete(t, router, "Ben")
	require.Equal(t, 2, listInsights(t, router).Unacknowledged)

	id := athlete.ID + ":" + string(domain.InsightNoSessions)
	w := doJSON(t, router, http.MethodPost, "/api/v1/insights/"+id+"/acknowledge", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	insights := listInsights(t, router)
	assert.Equal(t, 1, insights.Unacknowledged)
	require.Len(t, insights.Insights, 1)
	assert.Equal(t, "Ben hasn't logged any training sessions yet.", insights.Insights[0].Message)

	// Unknown and malformed ids are accepted and change nothing.
	for _, id := range []string{id, "ghost:no-sessions", "garbage"} {
		w = doJSON(t, router, http.MethodPost, "/api/v1/insights/"+id+"/acknowledge", nil)
		assert.Equal(t, http.StatusNoContent, w.Code, id)
	}
	assert.Equal(t, 1, listInsights(t, router).Unacknowledged)
}

func TestSnapshotExportRestore(t *testing.T) {
	router := newTestRouter(t)
	athlete := addAthlete(t, router, "Ana")
	w := doJSON(t, router, http.MethodPost, "/api/v1/athletes/"+athlete.ID+"/sessions", map[string]string{
		"ragStatus":   "red",
		"completedAt": "2025-02-28T07:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/snapshot", nil)
	require.Equal(t, http.StatusOK, w.Code)
	exported := w.Body.Bytes()
	snap, err := snapshot.DecodeJSON(bytes.NewReader(exported))
	require.NoError(t, err)
	require.Len(t, snap.Athletes, 1)
	assert.Len(t, snap.Sessions, 1)
	assert.Len(t, snap.Insights, 1)

	other := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/snapshot", bytes.NewReader(exported))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	other.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	w = doJSON(t, other, http.MethodGet, "/api/v1/athletes/"+athlete.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	insights := listInsights(t, other)
	require.Len(t, insights.Insights, 1)
	assert.Equal(t, domain.InsightRedStatus, insights.Insights[0].ID.Kind)
}

func TestSnapshotBSON(t *testing.T) {
	router := newTestRouter(t)
	addAthlete(t, router, "Ana")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/snapshot", nil)
	req.Header.Set("Accept", "application/bson")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/bson", w.Header().Get("Content-Type"))

	snap, err := snapshot.DecodeBSON(w.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, snap.Athletes, 1)
	assert.Equal(t, "Ana", snap.Athletes[0].Name)

	other := newTestRouter(t)
	req = httptest.NewRequest(http.MethodPut, "/api/v1/snapshot", bytes.NewReader(w.Body.Bytes()))
	req.Header.Set("Content-Type", "application/bson")
	rec := httptest.NewRecorder()
	other.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
}

func TestRestore_Rejected(t *testing.T) {
	router := newTestRouter(t)
	addAthlete(t, router, "Ana")

	req := httptest.NewRequest(http.MethodPut, "/api/v1/snapshot", bytes.NewReader([]byte(`{"version":1,`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	orphan := `{"version":1,"athletes":[],"sessions":[{"id":"s1","athleteId":"ghost","completedAt":"2025-02-28T07:00:00Z","ragStatus":"red"}]}`
	req = httptest.NewRequest(http.MethodPut, "/api/v1/snapshot", bytes.NewReader([]byte(orphan)))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Nothing changed.
	w = doJSON(t, router, http.MethodGet, "/api/v1/athletes", nil)
	var athletes []AthleteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &athletes))
	assert.Len(t, athletes, 1)
}

func TestMapAthleteToResponse_DaysUntilRace(t *testing.T) {
	race := testNow.Add(10*24*time.Hour + time.Hour)
	resp := MapAthleteToResponse(domain.Athlete{Name: "Ana", TargetRaceDate: &race}, domain.UnitMinPerKm, testNow)
	require.NotNil(t, resp.DaysUntilRace)
	assert.Equal(t, 11, *resp.DaysUntilRace)
	assert.Equal(t, "- min/km", resp.Display.LT1Velocity)
}
