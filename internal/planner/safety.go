package planner

import (
	"maternal-meal-planner/internal/catalog"
)

// filterResult is the outcome of the safety pipeline: the preferred eligible
// set, the health-flagged fallback pool, and whether the region preference
// had to be abandoned.
type filterResult struct {
	eligible      []catalog.FoodItem
	fallback      []catalog.FoodItem
	regionRelaxed bool
}

// filterCatalog reduces the catalog for a query in four fixed steps:
// trimester (hard), diet (hard), health conditions (soft, flagged items are
// kept as a fallback pool), region (soft, degrades gracefully).
func filterCatalog(items []catalog.FoodItem, q PlanQuery) (filterResult, error) {
	var res filterResult

	// Steps 1+2: hard constraints. Zero survivors here is fatal.
	var admissible []catalog.FoodItem
	for _, item := range items {
		if !item.SuitableFor(q.Trimester) {
			continue
		}
		if q.dietFilterActive() && !item.Diet.Satisfies(q.Diet) {
			continue
		}
		admissible = append(admissible, item)
	}
	if len(admissible) == 0 {
		diet := q.Diet
		if diet == "" {
			diet = catalog.DietAny
		}
		return res, &EmptyCatalogError{Trimester: q.Trimester, Diet: diet}
	}

	// Step 3: partition on health conditions. Flagged items stay in reserve
	// for slots the eligible set cannot fill.
	for _, item := range admissible {
		if item.HasPrecaution(q.HealthConditions) {
			res.fallback = append(res.fallback, item)
		} else {
			res.eligible = append(res.eligible, item)
		}
	}

	// Step 4: region preference restricts the eligible set only when it
	// leaves something behind; it never empties the set on its own.
	if q.regionFilterActive() && len(res.eligible) > 0 {
		var regional []catalog.FoodItem
		for _, item := range res.eligible {
			if item.MatchesRegion(q.Region) {
				regional = append(regional, item)
			}
		}
		if len(regional) > 0 {
			res.eligible = regional
		} else {
			res.regionRelaxed = true
		}
	}

	return res, nil
}
