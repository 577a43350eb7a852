package report

import (
	"fmt"
	"strings"

	"maternal-meal-planner/internal/planner"
)

// TableRow is one day of a plan flattened for display.
type TableRow struct {
	Day        int
	Breakfast  string
	MidMorning string
	Lunch      string
	Evening    string
	Dinner     string
	Calories   float64
}

// Table flattens a plan into one row per day, in day order.
func Table(plan *planner.Plan) []TableRow {
	rows := make([]TableRow, plan.Query.Days)
	for d := range rows {
		rows[d].Day = d + 1
	}

	for _, a := range plan.Assignments {
		row := &rows[a.Slot.Day]
		name := a.Item.NameEnglish
		if a.Item.NameHindi != "" {
			name = fmt.Sprintf("%s (%s)", a.Item.NameEnglish, a.Item.NameHindi)
		}
		switch a.Slot.Kind {
		case planner.SlotBreakfast:
			row.Breakfast = name
		case planner.SlotMidMorning:
			row.MidMorning = name
		case planner.SlotLunch:
			row.Lunch = name
		case planner.SlotEvening:
			row.Evening = name
		case planner.SlotDinner:
			row.Dinner = name
		}
	}

	for d := range rows {
		rows[d].Calories = plan.Nutrition.Days[d].Totals["calories"]
	}
	return rows
}

// FormatPlanMarkdown renders a plan for Telegram.
func FormatPlanMarkdown(plan *planner.Plan) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🗓 *%d-Day Meal Plan* (trimester %d)\n\n", plan.Query.Days, plan.Query.Trimester))

	for _, row := range Table(plan) {
		sb.WriteString(fmt.Sprintf("*Day %d*\n", row.Day))
		sb.WriteString(fmt.Sprintf("• Breakfast: %s\n", row.Breakfast))
		sb.WriteString(fmt.Sprintf("• Mid-morning: %s\n", row.MidMorning))
		sb.WriteString(fmt.Sprintf("• Lunch: %s\n", row.Lunch))
		sb.WriteString(fmt.Sprintf("• Evening: %s\n", row.Evening))
		sb.WriteString(fmt.Sprintf("• Dinner: %s\n", row.Dinner))
		sb.WriteString(fmt.Sprintf("_%.0f kcal_\n\n", row.Calories))
	}

	if avg, ok := plan.Nutrition.DailyAverages["calories"]; ok {
		sb.WriteString(fmt.Sprintf("📊 *Average per day:* %.0f kcal", avg))
		if protein, ok := plan.Nutrition.DailyAverages["protein"]; ok {
			sb.WriteString(fmt.Sprintf(", %.1f g protein", protein))
		}
		sb.WriteString("\n")
	}

	if len(plan.Warnings) > 0 {
		sb.WriteString("\n⚠️ *Notes*\n")
		for _, w := range plan.Warnings {
			if w.Slot == (planner.MealSlot{}) {
				sb.WriteString(fmt.Sprintf("• %s\n", describeReason(w.Reason)))
			} else {
				sb.WriteString(fmt.Sprintf("• %s: %s\n", w.Slot, describeReason(w.Reason)))
			}
		}
	}

	return sb.String()
}

// FormatRecommendationsMarkdown renders a ranked list for Telegram.
func FormatRecommendationsMarkdown(entries []planner.RecommendationEntry) string {
	var sb strings.Builder
	sb.WriteString("🥗 *Recommended Foods*\n\n")
	if len(entries) == 0 {
		sb.WriteString("_No eligible foods for these filters._\n")
		return sb.String()
	}
	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("%d. *%s*: score %.2f (%s)\n", i+1, e.Name, e.Score, describeReason(e.Reason)))
	}
	return sb.String()
}

func describeReason(reason string) string {
	switch reason {
	case planner.ReasonCooldownRelaxed:
		return "variety window relaxed, a recent item repeats"
	case planner.ReasonHealthFallback:
		return "health-flagged item used, check its precautions"
	case planner.ReasonRegionRelaxed:
		return "no foods match the requested region, showing all regions"
	case "nutrient_density":
		return "strong trimester nutrient profile"
	case "diet_match":
		return "matches your diet exactly"
	case "region_match":
		return "matches your region"
	}
	return reason
}
