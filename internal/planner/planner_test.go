package planner

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"maternal-meal-planner/internal/catalog"
)

// fakeSource serves a fixed snapshot, the way the engine sees a catalog.
type fakeSource struct {
	items []catalog.FoodItem
	err   error
}

func (s *fakeSource) ListAll(_ context.Context) ([]catalog.FoodItem, error) {
	return s.items, s.err
}

func seedSource(t *testing.T) *fakeSource {
	t.Helper()
	items, err := catalog.SeedItems()
	if err != nil {
		t.Fatalf("failed to load seed catalog: %v", err)
	}
	return &fakeSource{items: items}
}

func TestGenerateWeeklyVegetarianPlan(t *testing.T) {
	ctx := context.Background()
	p := NewPlanner(seedSource(t), Options{})

	q := PlanQuery{Days: 7, Trimester: 2, Diet: catalog.DietVegetarian}
	plan, err := p.Generate(ctx, q)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if got, want := len(plan.Assignments), 7*SlotsPerDay; got != want {
		t.Fatalf("expected %d assignments, got %d", want, got)
	}

	for _, a := range plan.Assignments {
		if !a.Item.SuitableFor(2) {
			t.Errorf("%s: item %q is not suitable for trimester 2", a.Slot, a.Item.NameEnglish)
		}
		if !a.Item.Diet.Satisfies(catalog.DietVegetarian) {
			t.Errorf("%s: item %q violates the vegetarian filter", a.Slot, a.Item.NameEnglish)
		}
	}

	// Calorie total must be the exact sum of the chosen items, accumulated
	// day by day like the aggregator does.
	var total float64
	for d := 0; d < q.Days; d++ {
		var day float64
		for _, a := range plan.Assignments {
			if a.Slot.Day == d {
				day += a.Item.Nutrient("calories")
			}
		}
		total += day
	}
	if plan.Nutrition.Totals["calories"] != total {
		t.Errorf("calorie total %v does not equal sum of assigned items %v",
			plan.Nutrition.Totals["calories"], total)
	}
}

func TestGenerateNutritionRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := NewPlanner(seedSource(t), Options{})

	plan, err := p.Generate(ctx, PlanQuery{Days: 5, Trimester: 3})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(plan.Nutrition.Days) != 5 {
		t.Fatalf("expected 5 daily summaries, got %d", len(plan.Nutrition.Days))
	}

	for nutrient, total := range plan.Nutrition.Totals {
		var daySum float64
		for _, day := range plan.Nutrition.Days {
			daySum += day.Totals[nutrient]
		}
		if daySum != total {
			t.Errorf("nutrient %s: plan total %v != sum of day totals %v", nutrient, total, daySum)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	ctx := context.Background()
	p := NewPlanner(seedSource(t), Options{})

	q := PlanQuery{Days: 14, Trimester: 1, Diet: catalog.DietAny, Seed: 99}
	first, err := p.Generate(ctx, q)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	second, err := p.Generate(ctx, q)
	if err != nil {
		t.Fatalf("Generate failed on repeat: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("identical (catalog, query, seed) produced different plans")
	}
}

func TestGenerateDaysBoundary(t *testing.T) {
	ctx := context.Background()
	p := NewPlanner(seedSource(t), Options{})

	for _, days := range []int{0, 31, -1} {
		_, err := p.Generate(ctx, PlanQuery{Days: days, Trimester: 2})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("days=%d: expected ValidationError, got %v", days, err)
		}
	}

	for _, days := range []int{1, 30} {
		plan, err := p.Generate(ctx, PlanQuery{Days: days, Trimester: 2})
		if err != nil {
			t.Errorf("days=%d: expected success, got %v", days, err)
			continue
		}
		if len(plan.Assignments) != days*SlotsPerDay {
			t.Errorf("days=%d: expected %d assignments, got %d", days, days*SlotsPerDay, len(plan.Assignments))
		}
	}
}

func TestGenerateRejectsBadEnums(t *testing.T) {
	ctx := context.Background()
	p := NewPlanner(seedSource(t), Options{})

	t.Run("Trimester", func(t *testing.T) {
		_, err := p.Generate(ctx, PlanQuery{Days: 3, Trimester: 4})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if verr.Field != "trimester" {
			t.Errorf("expected field 'trimester', got %q", verr.Field)
		}
	})

	t.Run("Diet", func(t *testing.T) {
		_, err := p.Generate(ctx, PlanQuery{Days: 3, Trimester: 2, Diet: "keto"})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
}

func TestGenerateRegionRelaxationWarning(t *testing.T) {
	ctx := context.Background()
	items := []catalog.FoodItem{
		{ID: 1, NameEnglish: "Rice", Category: catalog.CategoryGrains, Diet: catalog.DietVegan,
			Trimesters: []int{1, 2, 3}, Region: "South India",
			Nutrients: map[string]float64{"calories": 130}},
	}
	p := NewPlanner(&fakeSource{items: items}, Options{})

	plan, err := p.Generate(ctx, PlanQuery{Days: 1, Trimester: 2, Region: "North India"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	found := false
	for _, w := range plan.Warnings {
		if w.Reason == ReasonRegionRelaxed && w.Slot == (MealSlot{}) {
			found = true
		}
	}
	if !found {
		t.Error("expected a plan-level region_relaxed warning")
	}
}

func TestGenerateEmptyCatalog(t *testing.T) {
	ctx := context.Background()
	items := []catalog.FoodItem{
		{ID: 1, NameEnglish: "Eggs", Category: catalog.CategoryProteins, Diet: catalog.DietNonVegetarian,
			Trimesters: []int{1, 2, 3}, Nutrients: map[string]float64{"protein": 13}},
	}
	p := NewPlanner(&fakeSource{items: items}, Options{})

	_, err := p.Generate(ctx, PlanQuery{Days: 2, Trimester: 2, Diet: catalog.DietVegan})
	var cerr *EmptyCatalogError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected EmptyCatalogError, got %v", err)
	}
	if cerr.Trimester != 2 || cerr.Diet != catalog.DietVegan {
		t.Errorf("error should carry the offending constraints, got %+v", cerr)
	}
}

func TestGenerateSourceError(t *testing.T) {
	ctx := context.Background()
	p := NewPlanner(&fakeSource{err: errors.New("disk on fire")}, Options{})

	_, err := p.Generate(ctx, PlanQuery{Days: 1, Trimester: 1})
	if err == nil {
		t.Fatal("expected error from failing source, got nil")
	}
}

func TestRecommendNeverPads(t *testing.T) {
	ctx := context.Background()
	items := []catalog.FoodItem{
		{ID: 1, NameEnglish: "Spinach", Category: catalog.CategoryVegetables, Diet: catalog.DietVegan,
			Trimesters: []int{1}, Nutrients: map[string]float64{"iron": 2.7, "folic_acid": 194}},
		{ID: 2, NameEnglish: "Lentils", Category: catalog.CategoryLentils, Diet: catalog.DietVegan,
			Trimesters: []int{1}, Nutrients: map[string]float64{"protein": 9, "folic_acid": 181}},
		{ID: 3, NameEnglish: "Milk", Category: catalog.CategoryDairy, Diet: catalog.DietVegetarian,
			Trimesters: []int{1}, Nutrients: map[string]float64{"calcium": 120}},
		{ID: 4, NameEnglish: "Papaya", Category: catalog.CategoryFruits, Diet: catalog.DietVegan,
			Trimesters: []int{3}, Nutrients: map[string]float64{"vitamin_c": 62}},
	}
	p := NewPlanner(&fakeSource{items: items}, Options{})

	entries, err := p.Recommend(ctx, PlanQuery{Trimester: 1, Diet: catalog.DietVegan}, 3)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}

	// Only two items are vegan and trimester-1 eligible; the milk and the
	// third-trimester papaya must never fill the remaining rank.
	if len(entries) != 2 {
		t.Fatalf("expected exactly 2 entries, got %d", len(entries))
	}
	if entries[0].Score < entries[1].Score {
		t.Error("entries are not sorted by descending score")
	}
	for _, e := range entries {
		if e.ItemID != 1 && e.ItemID != 2 {
			t.Errorf("ineligible item %d leaked into recommendations", e.ItemID)
		}
		if e.Reason == "" {
			t.Errorf("entry %d is missing its reason", e.ItemID)
		}
	}
}

func TestRecommendValidation(t *testing.T) {
	ctx := context.Background()
	p := NewPlanner(seedSource(t), Options{})

	t.Run("BadCount", func(t *testing.T) {
		_, err := p.Recommend(ctx, PlanQuery{Trimester: 1}, 0)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError for n=0, got %v", err)
		}
	})

	t.Run("DaysNotRequired", func(t *testing.T) {
		// The recommendation path has no calendar; a zero day count is fine.
		if _, err := p.Recommend(ctx, PlanQuery{Trimester: 1}, 5); err != nil {
			t.Fatalf("Recommend failed: %v", err)
		}
	})
}

func TestRecommendIsDeterministic(t *testing.T) {
	ctx := context.Background()
	p := NewPlanner(seedSource(t), Options{})

	q := PlanQuery{Trimester: 3, Diet: catalog.DietVegetarian}
	first, err := p.Recommend(ctx, q, 10)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	second, err := p.Recommend(ctx, q, 10)
	if err != nil {
		t.Fatalf("Recommend failed on repeat: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated Recommend calls differ")
	}
}
