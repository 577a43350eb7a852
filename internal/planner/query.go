package planner

import (
	"fmt"
	"math/rand"

	"maternal-meal-planner/internal/catalog"
)

// SlotKind identifies one of the five fixed daily meal positions.
type SlotKind string

const (
	SlotBreakfast  SlotKind = "breakfast"
	SlotMidMorning SlotKind = "mid_morning"
	SlotLunch      SlotKind = "lunch"
	SlotEvening    SlotKind = "evening"
	SlotDinner     SlotKind = "dinner"
)

// SlotOrder is the fixed walk order within a day.
var SlotOrder = [...]SlotKind{SlotBreakfast, SlotMidMorning, SlotLunch, SlotEvening, SlotDinner}

// SlotsPerDay is the number of meal slots in every day of a plan.
const SlotsPerDay = len(SlotOrder)

// MealSlot is a (day, slot kind) pair. Day is zero-based.
type MealSlot struct {
	Day  int      `json:"day"`
	Kind SlotKind `json:"kind"`
}

func (s MealSlot) String() string {
	return fmt.Sprintf("day %d %s", s.Day+1, s.Kind)
}

// DefaultSeed is used when a query supplies no seed, so that unseeded runs
// are still reproducible.
const DefaultSeed int64 = 42

// PlanQuery is the input for one generate or recommend call.
type PlanQuery struct {
	Days             int               `json:"days"`
	Trimester        int               `json:"trimester"`
	Diet             catalog.DietType  `json:"diet,omitempty"`
	Region           string            `json:"region,omitempty"`
	HealthConditions []string          `json:"health_conditions,omitempty"`
	Seed             int64             `json:"seed,omitempty"`
}

// dietFilterActive reports whether the diet filter constrains anything.
func (q PlanQuery) dietFilterActive() bool {
	return q.Diet != "" && q.Diet != catalog.DietAny
}

// regionFilterActive reports whether a region preference was given.
func (q PlanQuery) regionFilterActive() bool {
	return q.Region != "" && q.Region != "any"
}

// validate checks the query at the caller boundary. requireDays is false on
// the recommend path, which has no calendar.
func (q PlanQuery) validate(requireDays bool) error {
	if requireDays && (q.Days < 1 || q.Days > 30) {
		return &ValidationError{Field: "days", Reason: fmt.Sprintf("must be between 1 and 30, got %d", q.Days)}
	}
	if q.Trimester < 1 || q.Trimester > 3 {
		return &ValidationError{Field: "trimester", Reason: fmt.Sprintf("must be 1, 2 or 3, got %d", q.Trimester)}
	}
	switch q.Diet {
	case "", catalog.DietAny, catalog.DietVegan, catalog.DietVegetarian, catalog.DietNonVegetarian:
	default:
		return &ValidationError{Field: "diet", Reason: fmt.Sprintf("unknown diet type %q", q.Diet)}
	}
	return nil
}

// rng builds the seeded generator used only for tie-breaking. Never a
// global generator: determinism requires the seed to travel with the query.
func (q PlanQuery) rng() *rand.Rand {
	seed := q.Seed
	if seed == 0 {
		seed = DefaultSeed
	}
	return rand.New(rand.NewSource(seed))
}
