// Package generator turns plan parameters into a prompt, sends it to a text
// generation model and parses the reply as untyped JSON. The result is not
// trusted; callers pass it through the validation package.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/linusc17/fitness-planner/internal/models"
	"go.uber.org/zap"
)

// Model is a text generation backend.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Kind string

const (
	KindCall      Kind = "call"      // The model call itself failed.
	KindMalformed Kind = "malformed" // The reply is not a JSON object.
	KindInvalid   Kind = "invalid"   // The reply parsed but has the wrong shape.
)

type GenerationError struct {
	Kind Kind
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (%s): %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// IsKind reports whether err is a GenerationError of the given kind.
func IsKind(err error, kind Kind) bool {
	var gerr *GenerationError
	return errors.As(err, &gerr) && gerr.Kind == kind
}

const DefaultTimeout = 60 * time.Second

type Generator struct {
	model   Model
	timeout time.Duration
	logger  *zap.Logger
}

func New(model Model, timeout time.Duration, logger *zap.Logger) *Generator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{model: model, timeout: timeout, logger: logger}
}

// GenerateWorkout asks the model for a workout plan matching req.
func (g *Generator) GenerateWorkout(ctx context.Context, req models.WorkoutRequest) (map[string]any, error) {
	return g.run(ctx, "workout", WorkoutPrompt(req))
}

// GenerateMealPlan asks the model for a seven-day meal plan. req.Calories must
// already hold the effective target.
func (g *Generator) GenerateMealPlan(ctx context.Context, req models.MealPlanRequest) (map[string]any, error) {
	return g.run(ctx, "meal_plan", MealPlanPrompt(req))
}

// run makes exactly one model call under the generator's timeout.
func (g *Generator) run(ctx context.Context, plan, prompt string) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	text, err := g.model.Generate(ctx, prompt)
	if err != nil {
		return nil, &GenerationError{Kind: KindCall, Err: err}
	}
	g.logger.Debug("Model replied",
		zap.String("plan", plan),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("bytes", len(text)))

	out, err := Parse(text)
	if err != nil {
		g.logger.Warn("Unparseable model reply", zap.String("plan", plan), zap.String("reply", truncate(text, 500)))
		return nil, &GenerationError{Kind: KindMalformed, Err: err}
	}
	return out, nil
}

// Clean strips markdown code fences the model may wrap its JSON in.
func Clean(text string) string {
	text = strings.ReplaceAll(text, "```json\n", "")
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```\n", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// Parse cleans text and decodes it as a single JSON object.
func Parse(text string) (map[string]any, error) {
	cleaned := Clean(text)
	if cleaned == "" {
		return nil, errors.New("empty reply")
	}

	var out map[string]any
	dec := json.NewDecoder(strings.NewReader(cleaned))
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("invalid JSON reply: %w", err)
	}
	if out == nil {
		return nil, errors.New("reply is not a JSON object")
	}
	if dec.More() {
		return nil, errors.New("trailing data after JSON object")
	}
	return out, nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
