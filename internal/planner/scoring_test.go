package planner

import (
	"math"
	"testing"

	"maternal-meal-planner/internal/catalog"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestItemScoreDensity(t *testing.T) {
	q := PlanQuery{Trimester: 3}

	t.Run("CapsEachNutrient", func(t *testing.T) {
		// Iron far beyond the target must contribute exactly the cap, so a
		// single dense item cannot dominate unbounded.
		rich := catalog.FoodItem{ID: 1, Nutrients: map[string]float64{"iron": 10000}}
		modest := catalog.FoodItem{ID: 2, Nutrients: map[string]float64{"iron": 27}}

		richScore, _ := itemScore(rich, q)
		modestScore, _ := itemScore(modest, q)
		if !almostEqual(richScore, modestScore) {
			t.Errorf("capped scores should be equal, got %v and %v", richScore, modestScore)
		}
	})

	t.Run("AveragesOverTargets", func(t *testing.T) {
		// One fully met target out of six priority nutrients.
		item := catalog.FoodItem{ID: 1, Nutrients: map[string]float64{"iron": 27}}
		score, reason := itemScore(item, q)
		if !almostEqual(score, 1.0/6.0) {
			t.Errorf("expected 1/6, got %v", score)
		}
		if reason != reasonNutrientDensity {
			t.Errorf("expected nutrient_density reason, got %q", reason)
		}
	})

	t.Run("ZeroForUnlistedNutrients", func(t *testing.T) {
		item := catalog.FoodItem{ID: 1, Nutrients: map[string]float64{"vitamin_c": 100}}
		score, _ := itemScore(item, q)
		if score != 0 {
			t.Errorf("non-priority nutrients must not score, got %v", score)
		}
	})
}

func TestItemScoreBonuses(t *testing.T) {
	t.Run("ExactDietMatch", func(t *testing.T) {
		q := PlanQuery{Trimester: 1, Diet: catalog.DietVegetarian}
		vegetarian := catalog.FoodItem{ID: 1, Diet: catalog.DietVegetarian}
		vegan := catalog.FoodItem{ID: 2, Diet: catalog.DietVegan}

		vegetarianScore, reason := itemScore(vegetarian, q)
		veganScore, _ := itemScore(vegan, q)
		if !almostEqual(vegetarianScore-veganScore, dietMatchBonus) {
			t.Errorf("exact diet match should earn the bonus over a merely compatible item, diff %v",
				vegetarianScore-veganScore)
		}
		if reason != reasonDietMatch {
			t.Errorf("with zero density the diet bonus should dominate, got %q", reason)
		}
	})

	t.Run("RegionMatch", func(t *testing.T) {
		q := PlanQuery{Trimester: 1, Region: "South India"}
		local := catalog.FoodItem{ID: 1, Diet: catalog.DietVegan, Region: "South India"}
		remote := catalog.FoodItem{ID: 2, Diet: catalog.DietVegan, Region: "North India"}

		localScore, reason := itemScore(local, q)
		remoteScore, _ := itemScore(remote, q)
		if !almostEqual(localScore-remoteScore, regionMatchBonus) {
			t.Errorf("region match should earn the bonus, diff %v", localScore-remoteScore)
		}
		if reason != reasonRegionMatch {
			t.Errorf("expected region_match reason, got %q", reason)
		}
	})

	t.Run("NoBonusWhenFilterInactive", func(t *testing.T) {
		q := PlanQuery{Trimester: 1}
		item := catalog.FoodItem{ID: 1, Diet: catalog.DietVegan, Region: "South India"}
		score, _ := itemScore(item, q)
		if score != 0 {
			t.Errorf("bonuses require an active filter, got %v", score)
		}
	})
}

func TestSlotPreferenceTable(t *testing.T) {
	// The defaults mirror the product rule set: light categories early,
	// dense categories at the main meals.
	if !categoryPreferred(defaultSlotPreferences, SlotBreakfast, catalog.CategoryFruits) {
		t.Error("fruits should suit breakfast")
	}
	if categoryPreferred(defaultSlotPreferences, SlotBreakfast, catalog.CategoryLentils) {
		t.Error("lentils should not suit breakfast")
	}
	if !categoryPreferred(defaultSlotPreferences, SlotLunch, catalog.CategoryLentils) {
		t.Error("lentils should suit lunch")
	}
	if categoryPreferred(defaultSlotPreferences, SlotMidMorning, catalog.CategoryGrains) {
		t.Error("grains should not suit the mid-morning snack")
	}
}
