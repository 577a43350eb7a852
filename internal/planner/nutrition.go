package planner

import "sort"

// DayNutrition is the exact sum of nutrient maps across one day's slots.
type DayNutrition struct {
	Day    int                `json:"day"`
	Totals map[string]float64 `json:"totals"`
}

// PlanNutrition sums all days. Totals is the elementwise sum of the day
// totals; DailyAverages divides by the day count for presentation. No
// rounding happens here.
type PlanNutrition struct {
	Days          []DayNutrition     `json:"days"`
	Totals        map[string]float64 `json:"totals"`
	DailyAverages map[string]float64 `json:"daily_averages"`
}

// aggregateNutrition is a pure function of the assignment: per-day sums and
// the plan-level sum, with no re-weighting. Accumulation runs per nutrient
// in sorted name order and per slot in walk order, so repeated calls are
// bit-identical.
func aggregateNutrition(assignments []SlotAssignment, days int) PlanNutrition {
	nutrientSet := make(map[string]bool)
	for _, a := range assignments {
		for nutrient := range a.Item.Nutrients {
			nutrientSet[nutrient] = true
		}
	}
	nutrients := make([]string, 0, len(nutrientSet))
	for nutrient := range nutrientSet {
		nutrients = append(nutrients, nutrient)
	}
	sort.Strings(nutrients)

	plan := PlanNutrition{
		Days:          make([]DayNutrition, days),
		Totals:        make(map[string]float64, len(nutrients)),
		DailyAverages: make(map[string]float64, len(nutrients)),
	}
	for d := range plan.Days {
		plan.Days[d] = DayNutrition{Day: d, Totals: make(map[string]float64, len(nutrients))}
	}

	for _, nutrient := range nutrients {
		for _, a := range assignments {
			plan.Days[a.Slot.Day].Totals[nutrient] += a.Item.Nutrients[nutrient]
		}
		for d := range plan.Days {
			plan.Totals[nutrient] += plan.Days[d].Totals[nutrient]
		}
		if days > 0 {
			plan.DailyAverages[nutrient] = plan.Totals[nutrient] / float64(days)
		}
	}
	return plan
}
