package planner

import (
	"sort"

	"maternal-meal-planner/internal/catalog"
)

// trimesterTargets holds the per-serving nutrient targets emphasized in each
// trimester. The density score measures how far an item goes toward them.
var trimesterTargets = map[int]map[string]float64{
	1: {
		"folic_acid": 600,
		"vitamin_b6": 1.9,
		"iron":       27,
		"calcium":    1000,
		"protein":    60,
		"calories":   1800,
	},
	2: {
		"calcium":   1000,
		"vitamin_d": 600,
		"omega3":    200,
		"protein":   70,
		"iron":      27,
		"calories":  2200,
	},
	3: {
		"iron":      27,
		"protein":   75,
		"vitamin_k": 90,
		"fiber":     28,
		"calcium":   1000,
		"calories":  2400,
	},
}

// Score term weights. Each term is documented independently so reasons and
// ties stay reproducible.
const (
	// nutrientCap bounds each nutrient's contribution so a single dense
	// item cannot dominate the score unbounded.
	nutrientCap = 1.0

	dietMatchBonus   = 0.10
	regionMatchBonus = 0.10

	// slotPreferenceBonus rewards items whose category suits the slot kind
	// (lighter categories at breakfast, denser at lunch). Applied per slot
	// by the variety selector, never a hard filter.
	slotPreferenceBonus = 0.20

	// coverageBonus rewards categories under-represented in the assignments
	// made so far; it keeps food-group diversity across the plan.
	coverageBonus = 0.15
)

const (
	reasonNutrientDensity = "nutrient_density"
	reasonDietMatch       = "diet_match"
	reasonRegionMatch     = "region_match"
)

// itemScore is the context-free suitability score of an item for a query,
// with the name of its dominant term. Deterministic: no randomness here.
func itemScore(item catalog.FoodItem, q PlanQuery) (float64, string) {
	targets := trimesterTargets[q.Trimester]

	// Accumulate in sorted nutrient order so the float sum is bit-identical
	// across calls.
	names := make([]string, 0, len(targets))
	for nutrient := range targets {
		names = append(names, nutrient)
	}
	sort.Strings(names)

	var density float64
	for _, nutrient := range names {
		ratio := item.Nutrient(nutrient) / targets[nutrient]
		if ratio > nutrientCap {
			ratio = nutrientCap
		}
		density += ratio
	}
	density /= float64(len(targets))

	score := density
	reason := reasonNutrientDensity
	top := density

	if q.dietFilterActive() && item.Diet == q.Diet {
		score += dietMatchBonus
		if dietMatchBonus > top {
			top = dietMatchBonus
			reason = reasonDietMatch
		}
	}
	if q.regionFilterActive() && item.MatchesRegion(q.Region) {
		score += regionMatchBonus
		if regionMatchBonus > top {
			top = regionMatchBonus
			reason = reasonRegionMatch
		}
	}

	return score, reason
}

// slotPreferences maps each slot kind to the categories that suit it.
var defaultSlotPreferences = map[SlotKind][]catalog.Category{
	SlotBreakfast:  {catalog.CategoryGrains, catalog.CategoryDairy, catalog.CategoryFruits, catalog.CategoryProteins},
	SlotMidMorning: {catalog.CategoryFruits, catalog.CategoryDryFruits, catalog.CategoryDairy},
	SlotLunch:      {catalog.CategoryGrains, catalog.CategoryVegetables, catalog.CategoryProteins, catalog.CategoryLentils, catalog.CategoryDairy},
	SlotEvening:    {catalog.CategoryFruits, catalog.CategoryDryFruits, catalog.CategoryDairy, catalog.CategoryVegetables},
	SlotDinner:     {catalog.CategoryGrains, catalog.CategoryVegetables, catalog.CategoryLentils, catalog.CategoryDairy},
}

func categoryPreferred(prefs map[SlotKind][]catalog.Category, kind SlotKind, c catalog.Category) bool {
	for _, p := range prefs[kind] {
		if p == c {
			return true
		}
	}
	return false
}
