// Package planner runs the generate-and-store pipeline for each plan type:
// authenticate, validate input, generate, validate output, persist, respond.
// Nothing is retried; the first failing step ends the request.
package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/linusc17/fitness-planner/internal/generator"
	"github.com/linusc17/fitness-planner/internal/metrics"
	"github.com/linusc17/fitness-planner/internal/models"
	"github.com/linusc17/fitness-planner/internal/storage"
	"github.com/linusc17/fitness-planner/internal/validation"
	"go.uber.org/zap"
)

var ErrUnauthenticated = errors.New("authentication required")

// StorageError wraps a failed persistence call.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failed (%s): %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

type PlanGenerator interface {
	GenerateWorkout(ctx context.Context, req models.WorkoutRequest) (map[string]any, error)
	GenerateMealPlan(ctx context.Context, req models.MealPlanRequest) (map[string]any, error)
}

type Store interface {
	SaveWorkoutPlan(ctx context.Context, userID string, plan models.WorkoutPlan) (models.WorkoutPlan, error)
	SaveMealPlan(ctx context.Context, userID string, plan models.MealPlan) (models.MealPlan, error)
	SaveProgressLog(ctx context.Context, userID string, log models.ProgressLog) (models.ProgressLog, error)
	CreateProfile(ctx context.Context, userID string, p models.UserProfile) (models.UserProfile, error)
}

type Service struct {
	gen     PlanGenerator
	store   Store
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func New(gen PlanGenerator, store Store, logger *zap.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gen: gen, store: store, logger: logger, metrics: m, now: time.Now}
}

const (
	kindWorkout  = "workout"
	kindMealPlan = "meal_plan"
	kindProgress = "progress"
	kindProfile  = "profile"
)

// GenerateWorkout runs the pipeline for a workout plan. The returned plan's
// difficulty and duration always equal the requested level and time.
func (s *Service) GenerateWorkout(ctx context.Context, userID string, body []byte) (models.WorkoutPlan, error) {
	log := s.logger.With(zap.String("kind", kindWorkout), zap.String("user_id", userID))

	if userID == "" {
		return models.WorkoutPlan{}, s.fail(log, kindWorkout, "authenticate", ErrUnauthenticated)
	}

	req, err := validation.WorkoutRequest(body)
	if err != nil {
		return models.WorkoutPlan{}, s.fail(log, kindWorkout, "validate_input", err)
	}

	raw, err := s.generate(ctx, kindWorkout, func(ctx context.Context) (map[string]any, error) {
		return s.gen.GenerateWorkout(ctx, req)
	})
	if err != nil {
		return models.WorkoutPlan{}, s.fail(log, kindWorkout, "generate", err)
	}

	plan, err := validation.WorkoutPlan(raw)
	if err != nil {
		return models.WorkoutPlan{}, s.fail(log, kindWorkout, "validate_output",
			&generator.GenerationError{Kind: generator.KindInvalid, Err: err})
	}
	plan.Difficulty = req.Level
	plan.Duration = req.Time
	plan.WorkoutType = req.WorkoutType

	stored, err := s.store.SaveWorkoutPlan(ctx, userID, plan)
	if err != nil {
		plan.UserID = userID
		plan.CreatedAt = s.now().UTC()
		plan.Persisted = false
		s.degraded(log, kindWorkout, err)
		return plan, nil
	}

	s.succeed(log, kindWorkout, zap.String("plan_id", stored.ID))
	return stored, nil
}

// EffectiveCalories is the requested target, or the goal's default when none
// was given.
func EffectiveCalories(req models.MealPlanRequest) int {
	if req.Calories > 0 {
		return req.Calories
	}
	return models.DefaultCalories(req.Goal)
}

// GenerateMealPlan runs the pipeline for a seven-day meal plan.
func (s *Service) GenerateMealPlan(ctx context.Context, userID string, body []byte) (models.MealPlan, error) {
	log := s.logger.With(zap.String("kind", kindMealPlan), zap.String("user_id", userID))

	if userID == "" {
		return models.MealPlan{}, s.fail(log, kindMealPlan, "authenticate", ErrUnauthenticated)
	}

	req, err := validation.MealPlanRequest(body)
	if err != nil {
		return models.MealPlan{}, s.fail(log, kindMealPlan, "validate_input", err)
	}
	req.Calories = EffectiveCalories(req)

	raw, err := s.generate(ctx, kindMealPlan, func(ctx context.Context) (map[string]any, error) {
		return s.gen.GenerateMealPlan(ctx, req)
	})
	if err != nil {
		return models.MealPlan{}, s.fail(log, kindMealPlan, "generate", err)
	}

	plan, err := validation.MealPlan(raw)
	if err != nil {
		return models.MealPlan{}, s.fail(log, kindMealPlan, "validate_output",
			&generator.GenerationError{Kind: generator.KindInvalid, Err: err})
	}
	plan.CaloriesTarget = req.Calories

	stored, err := s.store.SaveMealPlan(ctx, userID, plan)
	if err != nil {
		plan.UserID = userID
		plan.CreatedAt = s.now().UTC()
		plan.Persisted = false
		s.degraded(log, kindMealPlan, err)
		return plan, nil
	}

	s.succeed(log, kindMealPlan, zap.String("plan_id", stored.ID))
	return stored, nil
}

// SaveProgress records a completed workout. A workout plan id the user does
// not own is reported as a validation error on workout_plan_id.
func (s *Service) SaveProgress(ctx context.Context, userID string, body []byte) (models.ProgressLog, error) {
	log := s.logger.With(zap.String("kind", kindProgress), zap.String("user_id", userID))

	if userID == "" {
		return models.ProgressLog{}, s.fail(log, kindProgress, "authenticate", ErrUnauthenticated)
	}

	entry, err := validation.ProgressRequest(body)
	if err != nil {
		return models.ProgressLog{}, s.fail(log, kindProgress, "validate_input", err)
	}

	stored, err := s.store.SaveProgressLog(ctx, userID, entry)
	if errors.Is(err, storage.ErrNotFound) {
		return models.ProgressLog{}, s.fail(log, kindProgress, "validate_input", &validation.ValidationError{
			Fields: []validation.FieldError{{Field: "workout_plan_id", Constraint: "unknown workout plan"}},
		})
	}
	if err != nil {
		return models.ProgressLog{}, s.fail(log, kindProgress, "persist", &StorageError{Op: "save progress log", Err: err})
	}

	s.succeed(log, kindProgress, zap.String("log_id", stored.ID))
	return stored, nil
}

// CreateProfile stores the onboarding profile. storage.ErrExists is returned
// unwrapped when the user already has one.
func (s *Service) CreateProfile(ctx context.Context, userID string, body []byte) (models.UserProfile, error) {
	log := s.logger.With(zap.String("kind", kindProfile), zap.String("user_id", userID))

	if userID == "" {
		return models.UserProfile{}, s.fail(log, kindProfile, "authenticate", ErrUnauthenticated)
	}

	p, err := validation.ProfileRequest(body)
	if err != nil {
		return models.UserProfile{}, s.fail(log, kindProfile, "validate_input", err)
	}

	stored, err := s.store.CreateProfile(ctx, userID, p)
	if errors.Is(err, storage.ErrExists) {
		log.Info("Profile already exists")
		return models.UserProfile{}, err
	}
	if err != nil {
		return models.UserProfile{}, s.fail(log, kindProfile, "persist", &StorageError{Op: "create profile", Err: err})
	}

	s.succeed(log, kindProfile, zap.String("profile_id", stored.ID))
	return stored, nil
}

func (s *Service) generate(ctx context.Context, kind string, call func(context.Context) (map[string]any, error)) (map[string]any, error) {
	start := s.now()
	raw, err := call(ctx)
	if s.metrics != nil {
		s.metrics.GenerationDuration.WithLabelValues(kind).Observe(s.now().Sub(start).Seconds())
	}
	return raw, err
}

func (s *Service) fail(log *zap.Logger, kind, stage string, err error) error {
	outcome := Outcome(err)
	fields := []zap.Field{zap.String("stage", stage), zap.Error(err)}
	switch outcome {
	case metrics.OutcomeInvalid, metrics.OutcomeUnauthenticated:
		log.Info("Request rejected", fields...)
	default:
		log.Error("Request failed", fields...)
	}
	s.count(kind, outcome)
	return err
}

func (s *Service) degraded(log *zap.Logger, kind string, err error) {
	log.Warn("Returning generated plan without storing it",
		zap.String("stage", "persist"),
		zap.Error(&StorageError{Op: "save " + kind, Err: err}))
	if s.metrics != nil {
		s.metrics.Degraded.WithLabelValues(kind).Inc()
	}
	s.count(kind, metrics.OutcomeDegraded)
}

func (s *Service) succeed(log *zap.Logger, kind string, fields ...zap.Field) {
	log.Info("Request completed", fields...)
	s.count(kind, metrics.OutcomeOK)
}

func (s *Service) count(kind, outcome string) {
	if s.metrics != nil {
		s.metrics.Requests.WithLabelValues(kind, outcome).Inc()
	}
}

// Outcome classifies err into one of the metrics outcome labels. A
// GenerationError wrapping a ValidationError counts as a generation failure.
func Outcome(err error) string {
	var verr *validation.ValidationError
	var gerr *generator.GenerationError
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrUnauthenticated):
		return metrics.OutcomeUnauthenticated
	case errors.As(err, &gerr):
		return metrics.OutcomeGeneration
	case errors.As(err, &verr):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeStorage
	}
}
