package generator

import (
	"context"
	"errors"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/linusc17/fitness-planner/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeModel struct {
	reply    string
	err      error
	calls    int
	prompt   string
	deadline time.Time
}

func (f *fakeModel) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	f.deadline, _ = ctx.Deadline()
	return f.reply, f.err
}

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```\n", `{"a":1}`},
		{"fence without newline", "```json{\"a\":1}```", `{"a":1}`},
		{"whitespace", "  \n{\"a\":1}\n\t", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestParse(t *testing.T) {
	out, err := Parse("```json\n{\"name\":\"Leg Day\",\"duration\":30}\n```")
	require.NoError(t, err)
	assert.Equal(t, "Leg Day", out["name"])
	assert.Equal(t, float64(30), out["duration"])

	for _, bad := range []string{"", "Here is your plan!", "[1,2,3]", "null", `{"a":1} trailing`} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestGenerateWorkout(t *testing.T) {
	model := &fakeModel{reply: "```json\n{\"name\":\"Full Body\"}\n```"}
	g := New(model, 5*time.Second, zaptest.NewLogger(t))

	before := time.Now()
	out, err := g.GenerateWorkout(context.Background(), models.WorkoutRequest{
		Goal:        "Strength",
		Level:       "Advanced",
		Time:        45,
		Equipment:   []string{"Dumbbells", "Pull-up bar"},
		WorkoutType: "Upper Body",
	})
	require.NoError(t, err)
	assert.Equal(t, "Full Body", out["name"])
	assert.Equal(t, 1, model.calls)

	assert.Contains(t, model.prompt, "Generate a personalized Advanced workout plan")
	assert.Contains(t, model.prompt, "- Equipment: Dumbbells, Pull-up bar")
	assert.Contains(t, model.prompt, "- Any limitations: None")
	assert.Contains(t, model.prompt, `"duration": 45`)
	assert.Contains(t, model.prompt, `"difficulty": "Advanced"`)
	assert.Contains(t, model.prompt, "respond with only valid JSON")

	require.False(t, model.deadline.IsZero(), "model call must carry a deadline")
	assert.WithinDuration(t, before.Add(5*time.Second), model.deadline, time.Second)
}

func TestGenerateCallFailure(t *testing.T) {
	model := &fakeModel{err: errors.New("quota exceeded")}
	g := New(model, time.Second, zaptest.NewLogger(t))

	_, err := g.GenerateMealPlan(context.Background(), models.MealPlanRequest{Goal: "Endurance", Calories: 2200})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindCall))
	assert.False(t, IsKind(err, KindMalformed))
	assert.Equal(t, 1, model.calls, "no retries")
}

func TestGenerateMalformed(t *testing.T) {
	model := &fakeModel{reply: "Sure! Here's a meal plan: breakfast is rice."}
	g := New(model, time.Second, zaptest.NewLogger(t))

	_, err := g.GenerateMealPlan(context.Background(), models.MealPlanRequest{Goal: "Endurance", Calories: 2200})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindMalformed))
}

func TestMealPlanPrompt(t *testing.T) {
	prompt := MealPlanPrompt(models.MealPlanRequest{
		Goal:         "Muscle Gain",
		Restrictions: []string{"Dairy-free"},
		Preferences:  []string{"spicy", "seafood"},
	})
	assert.Contains(t, prompt, "- Calorie Target: 2500 calories per day")
	assert.Contains(t, prompt, `"totalCalories": 2500`)
	assert.Contains(t, prompt, "- Dietary Restrictions: Dairy-free")
	assert.Contains(t, prompt, "- Meal Preferences: spicy, seafood")
	assert.Contains(t, prompt, "sinigang")

	prompt = MealPlanPrompt(models.MealPlanRequest{Goal: "Weight Loss", Calories: 1500})
	assert.Contains(t, prompt, "- Calorie Target: 1500 calories per day")
	assert.Contains(t, prompt, "- Dietary Restrictions: None")
}

type blockingModel struct{}

func (blockingModel) Generate(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestGenerationTimeout(t *testing.T) {
	g := New(blockingModel{}, 10*time.Millisecond, zaptest.NewLogger(t))

	start := time.Now()
	out, err := g.GenerateWorkout(context.Background(), models.WorkoutRequest{Goal: "Endurance"})
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Nil(t, out)
	assert.True(t, IsKind(err, KindCall))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, elapsed, time.Second)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc...", truncate("abcdef", 3))

	// "ñ" is two bytes; cutting at 2 would split it.
	got := truncate("añb", 2)
	assert.Equal(t, "a...", got)
	assert.True(t, utf8.ValidString(got))

	got = truncate("sinigang na baboy 🍲🍲", 19)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "sinigang na baboy 🍲...", truncate("sinigang na baboy 🍲🍲", 22))
}

func TestDefaultTimeout(t *testing.T) {
	g := New(&fakeModel{}, 0, nil)
	assert.Equal(t, DefaultTimeout, g.timeout)
}
