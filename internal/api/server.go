// Package api exposes the planner over HTTP.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/linusc17/fitness-planner/internal/auth"
	"github.com/linusc17/fitness-planner/internal/config"
	"github.com/linusc17/fitness-planner/internal/metrics"
	"github.com/linusc17/fitness-planner/internal/models"
	"github.com/linusc17/fitness-planner/internal/planner"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Store is the read side the handlers need.
type Store interface {
	GetWorkoutPlan(ctx context.Context, userID, id string) (models.WorkoutPlan, error)
	ListWorkoutPlans(ctx context.Context, userID string) ([]models.WorkoutPlan, error)
	GetMealPlan(ctx context.Context, userID, id string) (models.MealPlan, error)
	ListMealPlans(ctx context.Context, userID string) ([]models.MealPlan, error)
	ListProgressLogs(ctx context.Context, userID string) ([]models.ProgressEntry, error)
	GetProfile(ctx context.Context, userID string) (models.UserProfile, error)
	RecentActivity(ctx context.Context, userID string, limit int) ([]models.Activity, error)
}

type Server struct {
	planner *planner.Service
	store   Store
	auth    auth.Provider
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewServer(p *planner.Service, store Store, provider auth.Provider, logger *zap.Logger, m *metrics.Metrics) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{planner: p, store: store, auth: provider, logger: logger, metrics: m}
}

// Handler returns the routed API wrapped in CORS, logging and metrics.
func (s *Server) Handler(allowedOrigins []string) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.healthz).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/generate-workout", s.generateWorkout).Methods("POST")
	api.HandleFunc("/generate-meal-plan", s.generateMealPlan).Methods("POST")
	api.HandleFunc("/save-progress", s.saveProgress).Methods("POST")
	api.HandleFunc("/workouts", s.listWorkouts).Methods("GET")
	api.HandleFunc("/workouts/{id}", s.getWorkout).Methods("GET")
	api.HandleFunc("/meals", s.listMeals).Methods("GET")
	api.HandleFunc("/meals/{id}", s.getMeal).Methods("GET")
	api.HandleFunc("/progress", s.progress).Methods("GET")
	api.HandleFunc("/profile", s.getProfile).Methods("GET")
	api.HandleFunc("/profile", s.createProfile).Methods("POST")
	api.HandleFunc("/dashboard", s.dashboard).Methods("GET")
	api.HandleFunc("/calorie-target", s.calorieTarget).Methods("GET")

	r.Use(s.loggingMiddleware)

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{persistedHeader},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

// NewHTTPServer applies the configured listen address and timeouts.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout.Duration,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.WriteTimeout.Duration,
	}
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}

		duration := time.Since(start)
		s.logger.Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", wrapper.statusCode),
			zap.Duration("duration", duration))
		if s.metrics != nil {
			s.metrics.HTTPDuration.WithLabelValues(route, strconv.Itoa(wrapper.statusCode)).Observe(duration.Seconds())
		}
	})
}

type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
