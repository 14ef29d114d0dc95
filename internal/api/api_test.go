package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/linusc17/fitness-planner/internal/auth"
	"github.com/linusc17/fitness-planner/internal/metrics"
	"github.com/linusc17/fitness-planner/internal/models"
	"github.com/linusc17/fitness-planner/internal/planner"
	"github.com/linusc17/fitness-planner/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	// The opencensus view worker is started at init by the genai dependency chain.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

type stubGenerator struct {
	calls   int
	err     error
	zeroSet bool // reply with an exercise of zero sets
}

func (g *stubGenerator) GenerateWorkout(context.Context, models.WorkoutRequest) (map[string]any, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	sets := float64(4)
	if g.zeroSet {
		sets = 0
	}
	return map[string]any{
		"name":       "Full Body Starter",
		"duration":   float64(60),
		"difficulty": "Beginner",
		"exercises": []any{
			map[string]any{
				"name":        "Squats",
				"sets":        sets,
				"reps":        float64(10),
				"rest":        "90 seconds",
				"description": "Sit back onto your heels.",
			},
		},
	}, nil
}

func (g *stubGenerator) GenerateMealPlan(_ context.Context, req models.MealPlanRequest) (map[string]any, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	meal := map[string]any{"name": "Pinakbet", "calories": float64(400), "description": "Vegetable stew"}
	var days []any
	for i := 1; i <= 7; i++ {
		days = append(days, map[string]any{
			"day":   fmt.Sprintf("Day %d", i),
			"meals": map[string]any{"breakfast": meal, "lunch": meal, "dinner": meal, "snack": meal},
		})
	}
	return map[string]any{"name": "Gulay Week", "totalCalories": float64(req.Calories), "days": days}, nil
}

type failingStore struct {
	*storage.Storage
}

func (failingStore) SaveMealPlan(context.Context, string, models.MealPlan) (models.MealPlan, error) {
	return models.MealPlan{}, errors.New("disk full")
}

type testServer struct {
	handler http.Handler
	gen     *stubGenerator
}

func newTestServer(t *testing.T, failMeals bool) *testServer {
	t.Helper()
	st, err := storage.Open("file:"+filepath.Join(t.TempDir(), "fitness.db"), "", time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	var pipelineStore planner.Store = st
	if failMeals {
		pipelineStore = failingStore{st}
	}

	logger := zaptest.NewLogger(t)
	m := metrics.New(prometheus.NewRegistry())
	gen := &stubGenerator{}
	svc := planner.New(gen, pipelineStore, logger, m)
	provider := auth.Static{"token-alice": "alice", "token-bob": "bob"}
	srv := NewServer(svc, st, provider, logger, m)
	return &testServer{handler: srv.Handler([]string{"*"}), gen: gen}
}

func (ts *testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

const workoutJSON = `{"goal":"Weight Loss","level":"Beginner","time":30,"equipment":[],"workoutType":"Full Body"}`

func TestGenerateWorkoutAndFetch(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(t, "POST", "/api/generate-workout", "token-alice", workoutJSON)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, rec.Header().Get(persistedHeader))

	var plan models.WorkoutPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.True(t, plan.Persisted)
	assert.Equal(t, 30, plan.Duration)
	assert.Equal(t, "10", plan.Exercises[0].Reps)

	rec = ts.do(t, "GET", "/api/workouts/"+plan.ID, "token-alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched models.WorkoutPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, plan.Exercises, fetched.Exercises)

	rec = ts.do(t, "GET", "/api/workouts/"+plan.ID, "token-bob", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, "GET", "/api/workouts", "token-bob", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestUnauthenticatedRequests(t *testing.T) {
	ts := newTestServer(t, false)

	for _, tc := range []struct{ method, path, token string }{
		{"POST", "/api/generate-workout", ""},
		{"POST", "/api/generate-meal-plan", "expired"},
		{"POST", "/api/save-progress", ""},
		{"GET", "/api/workouts", ""},
		{"GET", "/api/dashboard", "nope"},
	} {
		rec := ts.do(t, tc.method, tc.path, tc.token, workoutJSON)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.path)
	}
	assert.Zero(t, ts.gen.calls)
}

func TestValidationErrorDetails(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(t, "POST", "/api/generate-workout", "token-alice", `{"goal":"","level":"Beginner","time":500,"workoutType":"x"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	var fields []string
	for _, d := range body.Details {
		fields = append(fields, d.Field)
	}
	assert.Contains(t, fields, "goal")
	assert.Contains(t, fields, "time")
	assert.Zero(t, ts.gen.calls)
}

func TestGenerationFailureIsGeneric(t *testing.T) {
	ts := newTestServer(t, false)
	ts.gen.err = errors.New("upstream 503: secret details")

	rec := ts.do(t, "POST", "/api/generate-workout", "token-alice", workoutJSON)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestInvalidModelReplyIsServerError(t *testing.T) {
	ts := newTestServer(t, false)
	ts.gen.zeroSet = true

	rec := ts.do(t, "POST", "/api/generate-workout", "token-alice", workoutJSON)
	require.Equal(t, http.StatusInternalServerError, rec.Code, rec.Body.String())

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Details)
	assert.NotContains(t, rec.Body.String(), "exercises[0].sets")

	rec = ts.do(t, "GET", "/api/workouts", "token-alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestUnauthenticatedOversizedBody(t *testing.T) {
	ts := newTestServer(t, false)
	big := `{"goal":"` + strings.Repeat("x", 2<<20) + `"}`

	for _, path := range []string{"/api/generate-workout", "/api/generate-meal-plan", "/api/save-progress", "/api/profile"} {
		rec := ts.do(t, "POST", path, "", big)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
	assert.Zero(t, ts.gen.calls)
}

func TestDegradedMealPlan(t *testing.T) {
	ts := newTestServer(t, true)

	rec := ts.do(t, "POST", "/api/generate-meal-plan", "token-alice", `{"goal":"Endurance","restrictions":[],"preferences":[]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "false", rec.Header().Get(persistedHeader))

	var plan models.MealPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.False(t, plan.Persisted)
	assert.Empty(t, plan.ID)
	assert.Equal(t, 2200, plan.CaloriesTarget)
	assert.Len(t, plan.Days, 7)
}

func TestProgressAndDashboard(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(t, "POST", "/api/generate-workout", "token-alice", workoutJSON)
	require.Equal(t, http.StatusOK, rec.Code)
	var plan models.WorkoutPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))

	progress := fmt.Sprintf(`{"workout_plan_id":%q,"completed_at":"2026-10-19T08:00:00Z","rating":5}`, plan.ID)
	rec = ts.do(t, "POST", "/api/save-progress", "token-alice", progress)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, "POST", "/api/save-progress", "token-bob", progress)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, "GET", "/api/progress", "token-alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp progressResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Logs, 1)
	assert.Equal(t, models.ProgressSummary{TotalWorkouts: 1, TotalMinutes: 30, AverageRating: 5}, resp.Summary)

	rec = ts.do(t, "GET", "/api/dashboard", "token-alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var dash struct {
		Activity []models.Activity `json:"activity"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dash))
	assert.Len(t, dash.Activity, 2)
}

func TestProfile(t *testing.T) {
	ts := newTestServer(t, false)
	body := `{"fitness_goal":"Flexibility","experience_level":"Advanced","available_time":60,"equipment":["Yoga Mat"],"dietary_restrictions":[]}`

	rec := ts.do(t, "GET", "/api/profile", "token-alice", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, "POST", "/api/profile", "token-alice", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(t, "POST", "/api/profile", "token-alice", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, "GET", "/api/profile", "token-alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var p models.UserProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, []string{"Yoga Mat"}, p.Equipment)
}

func TestCalorieTarget(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(t, "GET", "/api/calorie-target?goal=Muscle+Gain", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"goal":"Muscle Gain","calories":2500}`, rec.Body.String())

	rec = ts.do(t, "GET", "/api/calorie-target", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, false)
	rec := ts.do(t, "GET", "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
