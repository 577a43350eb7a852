package report

import (
	"context"
	"fmt"
	"strings"

	"maternal-meal-planner/internal/llm"
	"maternal-meal-planner/internal/planner"
)

// Narrator turns a finished plan into short advice prose. It runs after
// generation and never influences which items were chosen.
type Narrator struct {
	textGen llm.TextGenerator
}

// NewNarrator creates a Narrator over a text generator.
func NewNarrator(textGen llm.TextGenerator) *Narrator {
	return &Narrator{textGen: textGen}
}

// Narrate asks the model for a friendly summary of the plan.
func (n *Narrator) Narrate(ctx context.Context, plan *planner.Plan) (string, error) {
	var days strings.Builder
	for _, row := range Table(plan) {
		fmt.Fprintf(&days, "Day %d: breakfast %s; mid-morning %s; lunch %s; evening %s; dinner %s (%.0f kcal)\n",
			row.Day, row.Breakfast, row.MidMorning, row.Lunch, row.Evening, row.Dinner, row.Calories)
	}

	prompt := fmt.Sprintf(`You are a maternal nutrition assistant. Below is a meal plan
generated for a woman in trimester %d of pregnancy. Write a short, warm
summary (at most 5 sentences) highlighting why this plan supports her
current trimester. Do not invent foods that are not in the plan and do not
give medical advice beyond general nutrition guidance.

Plan:
%s
Average daily calories: %.0f
`, plan.Query.Trimester, days.String(), plan.Nutrition.DailyAverages["calories"])

	text, err := n.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to narrate plan: %w", err)
	}
	return text, nil
}
