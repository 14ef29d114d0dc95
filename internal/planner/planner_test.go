package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/linusc17/fitness-planner/internal/generator"
	"github.com/linusc17/fitness-planner/internal/metrics"
	"github.com/linusc17/fitness-planner/internal/models"
	"github.com/linusc17/fitness-planner/internal/storage"
	"github.com/linusc17/fitness-planner/internal/validation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeGenerator struct {
	workout      map[string]any
	meal         map[string]any
	err          error
	workoutCalls int
	mealCalls    int
	lastMeal     models.MealPlanRequest
}

func (g *fakeGenerator) GenerateWorkout(_ context.Context, _ models.WorkoutRequest) (map[string]any, error) {
	g.workoutCalls++
	return g.workout, g.err
}

func (g *fakeGenerator) GenerateMealPlan(_ context.Context, req models.MealPlanRequest) (map[string]any, error) {
	g.mealCalls++
	g.lastMeal = req
	return g.meal, g.err
}

// fakeStore delegates to a real store unless err is set.
type fakeStore struct {
	Store
	err   error
	saves int
}

func (s *fakeStore) SaveWorkoutPlan(ctx context.Context, userID string, plan models.WorkoutPlan) (models.WorkoutPlan, error) {
	s.saves++
	if s.err != nil {
		return models.WorkoutPlan{}, s.err
	}
	return s.Store.SaveWorkoutPlan(ctx, userID, plan)
}

func (s *fakeStore) SaveMealPlan(ctx context.Context, userID string, plan models.MealPlan) (models.MealPlan, error) {
	s.saves++
	if s.err != nil {
		return models.MealPlan{}, s.err
	}
	return s.Store.SaveMealPlan(ctx, userID, plan)
}

func (s *fakeStore) SaveProgressLog(ctx context.Context, userID string, log models.ProgressLog) (models.ProgressLog, error) {
	s.saves++
	if s.err != nil {
		return models.ProgressLog{}, s.err
	}
	return s.Store.SaveProgressLog(ctx, userID, log)
}

func workoutOutput() map[string]any {
	return map[string]any{
		"name":       "Upper Body Blast",
		"duration":   float64(30),
		"difficulty": "Advanced",
		"exercises": []any{
			map[string]any{
				"name":        "Push-ups",
				"sets":        float64(3),
				"reps":        "12-15",
				"rest":        "60 seconds",
				"description": "Keep your core tight.",
			},
		},
	}
}

func mealOutput(days int) map[string]any {
	meal := func(name string, cal float64) map[string]any {
		return map[string]any{"name": name, "calories": cal, "description": name + " with rice"}
	}
	var list []any
	for i := 0; i < days; i++ {
		list = append(list, map[string]any{
			"day": fmt.Sprintf("Day %d", i+1),
			"meals": map[string]any{
				"breakfast": meal("Tapsilog", 450),
				"lunch":     meal("Chicken Adobo", 600),
				"dinner":    meal("Sinigang na Hipon", 550),
				"snack":     meal("Turon", 200),
			},
		})
	}
	return map[string]any{
		"name":          "Filipino Weekly Meal Plan",
		"totalCalories": float64(1800),
		"days":          list,
	}
}

const workoutBody = `{"goal":"Muscle Gain","level":"Intermediate","time":45,"equipment":["Dumbbells"],"workoutType":"Upper Body"}`

type harness struct {
	svc     *Service
	gen     *fakeGenerator
	store   *fakeStore
	backing *storage.Storage
	metrics *metrics.Metrics
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	st, err := storage.Open("file:"+filepath.Join(t.TempDir(), "fitness.db"), "", time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	gen := &fakeGenerator{workout: workoutOutput(), meal: mealOutput(7)}
	store := &fakeStore{Store: st}
	m := metrics.New(prometheus.NewRegistry())
	return &harness{
		svc:     New(gen, store, zaptest.NewLogger(t), m),
		gen:     gen,
		store:   store,
		backing: st,
		metrics: m,
	}
}

func TestGenerateWorkoutStoresPlan(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	plan, err := h.svc.GenerateWorkout(ctx, "user-1", []byte(workoutBody))
	require.NoError(t, err)

	assert.True(t, plan.Persisted)
	assert.NotEmpty(t, plan.ID)
	assert.Equal(t, "Intermediate", plan.Difficulty)
	assert.Equal(t, 45, plan.Duration)
	assert.Equal(t, "Upper Body", plan.WorkoutType)

	got, err := h.backing.GetWorkoutPlan(ctx, "user-1", plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.Name, got.Name)
	assert.Equal(t, plan.Exercises, got.Exercises)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Requests.WithLabelValues("workout", metrics.OutcomeOK)))
}

func TestUnauthenticatedDoesNothing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.GenerateWorkout(ctx, "", []byte(workoutBody))
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = h.svc.GenerateMealPlan(ctx, "", []byte(`{"goal":"Weight Loss"}`))
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = h.svc.SaveProgress(ctx, "", []byte(`{}`))
	assert.ErrorIs(t, err, ErrUnauthenticated)

	assert.Zero(t, h.gen.workoutCalls)
	assert.Zero(t, h.gen.mealCalls)
	assert.Zero(t, h.store.saves)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Requests.WithLabelValues("workout", metrics.OutcomeUnauthenticated)))
}

func TestInvalidInputSkipsGeneration(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.GenerateWorkout(context.Background(), "user-1",
		[]byte(`{"goal":"Muscle Gain","level":"Expert","time":10,"workoutType":"Upper Body"}`))
	var verr *validation.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("level"))
	assert.True(t, verr.Has("time"))
	assert.Zero(t, h.gen.workoutCalls)
	assert.Zero(t, h.store.saves)
}

func TestGenerationFailureIsNotStored(t *testing.T) {
	h := newHarness(t)
	h.gen.err = &generator.GenerationError{Kind: generator.KindCall, Err: errors.New("quota exceeded")}

	_, err := h.svc.GenerateWorkout(context.Background(), "user-1", []byte(workoutBody))
	assert.True(t, generator.IsKind(err, generator.KindCall))
	assert.Equal(t, 1, h.gen.workoutCalls)
	assert.Zero(t, h.store.saves)
}

func TestInvalidWorkoutOutputIsRejected(t *testing.T) {
	h := newHarness(t)
	out := workoutOutput()
	out["exercises"].([]any)[0].(map[string]any)["sets"] = float64(0)
	h.gen.workout = out

	_, err := h.svc.GenerateWorkout(context.Background(), "user-1", []byte(workoutBody))
	require.True(t, generator.IsKind(err, generator.KindInvalid), "got %v", err)

	var verr *validation.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("exercises[0].sets"))
	assert.Zero(t, h.store.saves)
}

func TestFiveDayMealPlanIsRejected(t *testing.T) {
	h := newHarness(t)
	h.gen.meal = mealOutput(5)

	_, err := h.svc.GenerateMealPlan(context.Background(), "user-1", []byte(`{"goal":"Weight Loss","restrictions":[],"calories":1800,"preferences":[]}`))
	assert.True(t, generator.IsKind(err, generator.KindInvalid), "got %v", err)
	assert.Zero(t, h.store.saves)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Requests.WithLabelValues("meal_plan", metrics.OutcomeGeneration)))
}

func TestMealPlanDefaultsCaloriesFromGoal(t *testing.T) {
	h := newHarness(t)

	plan, err := h.svc.GenerateMealPlan(context.Background(), "user-1", []byte(`{"goal":"Muscle Gain","restrictions":[],"preferences":["Seafood"]}`))
	require.NoError(t, err)
	assert.Equal(t, 2500, h.gen.lastMeal.Calories)
	assert.Equal(t, 2500, plan.CaloriesTarget)
	assert.True(t, plan.Persisted)
	assert.Len(t, plan.Days, models.DaysPerMealPlan)
}

func TestStorageFailureDegrades(t *testing.T) {
	h := newHarness(t)
	h.store.err = errors.New("database is locked")

	workout, err := h.svc.GenerateWorkout(context.Background(), "user-1", []byte(workoutBody))
	require.NoError(t, err)
	assert.False(t, workout.Persisted)
	assert.Empty(t, workout.ID)
	assert.Equal(t, "user-1", workout.UserID)
	assert.Len(t, workout.Exercises, 1)

	meal, err := h.svc.GenerateMealPlan(context.Background(), "user-1", []byte(`{"goal":"Weight Loss","restrictions":["No pork"],"preferences":[]}`))
	require.NoError(t, err)
	assert.False(t, meal.Persisted)
	assert.Empty(t, meal.ID)

	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Degraded.WithLabelValues("workout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Degraded.WithLabelValues("meal_plan")))
}

func progressBody(planID string) []byte {
	body, _ := json.Marshal(map[string]any{
		"workout_plan_id": planID,
		"completed_at":    "2026-10-19T07:30:00+08:00",
		"notes":           "Felt strong",
		"rating":          4,
	})
	return body
}

func TestSaveProgress(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	plan, err := h.svc.GenerateWorkout(ctx, "user-1", []byte(workoutBody))
	require.NoError(t, err)

	log, err := h.svc.SaveProgress(ctx, "user-1", progressBody(plan.ID))
	require.NoError(t, err)
	assert.NotEmpty(t, log.ID)
	assert.Equal(t, time.Date(2026, 10, 18, 23, 30, 0, 0, time.UTC), log.CompletedAt)

	entries, err := h.backing.ListProgressLogs(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, plan.Name, entries[0].PlanName)
}

func TestSaveProgressForeignPlan(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	plan, err := h.svc.GenerateWorkout(ctx, "user-1", []byte(workoutBody))
	require.NoError(t, err)

	for _, id := range []string{plan.ID, uuid.NewString()} {
		_, err = h.svc.SaveProgress(ctx, "user-2", progressBody(id))
		var verr *validation.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.True(t, verr.Has("workout_plan_id"))
	}
}

func TestSaveProgressStorageFailure(t *testing.T) {
	h := newHarness(t)
	h.store.err = errors.New("connection reset")

	_, err := h.svc.SaveProgress(context.Background(), "user-1", progressBody(uuid.NewString()))
	var serr *StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, metrics.OutcomeStorage, Outcome(err))
}

func TestCreateProfileTwice(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	body := []byte(`{"fitness_goal":"Endurance","experience_level":"Beginner","available_time":30,"equipment":[],"dietary_restrictions":["Vegetarian"]}`)

	p, err := h.svc.CreateProfile(ctx, "user-1", body)
	require.NoError(t, err)
	assert.Equal(t, "Endurance", p.FitnessGoal)

	_, err = h.svc.CreateProfile(ctx, "user-1", body)
	assert.ErrorIs(t, err, storage.ErrExists)
}

func TestOutcome(t *testing.T) {
	invalidInput := &validation.ValidationError{Fields: []validation.FieldError{{Field: "time", Constraint: "must be between 15 and 180"}}}
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"ok", nil, metrics.OutcomeOK},
		{"unauthenticated", ErrUnauthenticated, metrics.OutcomeUnauthenticated},
		{"invalid input", invalidInput, metrics.OutcomeInvalid},
		{"invalid reply", &generator.GenerationError{Kind: generator.KindInvalid, Err: invalidInput}, metrics.OutcomeGeneration},
		{"call failure", &generator.GenerationError{Kind: generator.KindCall, Err: errors.New("timeout")}, metrics.OutcomeGeneration},
		{"storage", &StorageError{Op: "save", Err: errors.New("locked")}, metrics.OutcomeStorage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Outcome(tt.err))
		})
	}
}

func TestInvalidReplyCountedAsGenerationFailure(t *testing.T) {
	h := newHarness(t)
	out := workoutOutput()
	out["exercises"].([]any)[0].(map[string]any)["sets"] = float64(0)
	h.gen.workout = out

	_, err := h.svc.GenerateWorkout(context.Background(), "user-1", []byte(workoutBody))
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Requests.WithLabelValues("workout", metrics.OutcomeGeneration)))
	assert.Zero(t, testutil.ToFloat64(h.metrics.Requests.WithLabelValues("workout", metrics.OutcomeInvalid)))
}
