package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/linusc17/fitness-planner/internal/models"
	"github.com/linusc17/fitness-planner/internal/validation"
)

// Per activity kind.
const dashboardLimit = 3

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) generateWorkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	plan, err := s.planner.GenerateWorkout(r.Context(), userID, body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	setPersisted(w, plan.Persisted)
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) generateMealPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	plan, err := s.planner.GenerateMealPlan(r.Context(), userID, body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	setPersisted(w, plan.Persisted)
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) saveProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	log, err := s.planner.SaveProgress(r.Context(), userID, body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

func (s *Server) listWorkouts(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	plans, err := s.store.ListWorkoutPlans(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if plans == nil {
		plans = []models.WorkoutPlan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) getWorkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	plan, err := s.store.GetWorkoutPlan(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) listMeals(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	plans, err := s.store.ListMealPlans(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if plans == nil {
		plans = []models.MealPlan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) getMeal(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	plan, err := s.store.GetMealPlan(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

type progressResponse struct {
	Logs    []models.ProgressEntry `json:"logs"`
	Summary models.ProgressSummary `json:"summary"`
}

func (s *Server) progress(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	entries, err := s.store.ListProgressLogs(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []models.ProgressEntry{}
	}
	writeJSON(w, http.StatusOK, progressResponse{Logs: entries, Summary: models.Summarize(entries)})
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	p, err := s.store.GetProfile(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) createProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.planner.CreateProfile(r.Context(), userID, body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	activity, err := s.store.RecentActivity(r.Context(), userID, dashboardLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if activity == nil {
		activity = []models.Activity{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"activity": activity})
}

// calorieTarget needs no session; it backs the meal plan form's placeholder.
func (s *Server) calorieTarget(w http.ResponseWriter, r *http.Request) {
	goal := r.URL.Query().Get("goal")
	if goal == "" {
		s.writeError(w, r, &validation.ValidationError{
			Fields: []validation.FieldError{{Field: "goal", Constraint: "required"}},
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"goal": goal, "calories": models.DefaultCalories(goal)})
}
