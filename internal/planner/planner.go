package planner

import (
	"context"
	"fmt"
	"sort"

	"maternal-meal-planner/internal/catalog"
)

// Source is the read-only catalog the planner draws from. The listing is
// fetched once per call and treated as an immutable snapshot; the planner
// never mutates it.
type Source interface {
	ListAll(ctx context.Context) ([]catalog.FoodItem, error)
}

// DefaultCooldownWindow is the number of most recent slots within which a
// category may not repeat an item. Seven slots keeps repeats out of roughly
// a day and a half while letting long plans reuse the catalog.
const DefaultCooldownWindow = 7

// Options are the tunable parameters of plan generation. Zero values fall
// back to the documented defaults.
type Options struct {
	CooldownWindow  int
	SlotPreferences map[SlotKind][]catalog.Category
}

func (o Options) withDefaults() Options {
	if o.CooldownWindow <= 0 {
		o.CooldownWindow = DefaultCooldownWindow
	}
	if o.SlotPreferences == nil {
		o.SlotPreferences = defaultSlotPreferences
	}
	return o
}

// SlotAssignment binds one meal slot to the chosen food item.
type SlotAssignment struct {
	Slot   MealSlot         `json:"slot"`
	ItemID int64            `json:"item_id"`
	Item   catalog.FoodItem `json:"item"`
}

// Plan is the complete result of one generate call.
type Plan struct {
	Query       PlanQuery        `json:"query"`
	Assignments []SlotAssignment `json:"assignments"`
	Nutrition   PlanNutrition    `json:"nutrition"`
	Warnings    []Warning        `json:"warnings,omitempty"`
}

// RecommendationEntry is one ranked item on the recommendation path.
type RecommendationEntry struct {
	ItemID int64   `json:"item_id"`
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// Planner composes the safety filter, scoring engine, variety selector and
// nutrition aggregator. Calls are pure functions of (catalog snapshot,
// query, seed): safe to run concurrently, no shared mutable state.
type Planner struct {
	source Source
	opts   Options
}

// NewPlanner creates a Planner over a catalog source.
func NewPlanner(source Source, opts Options) *Planner {
	return &Planner{source: source, opts: opts.withDefaults()}
}

// Generate produces a full meal plan for the query: filter, walk the
// day x slot grid, aggregate nutrition. On any fatal error no partial plan
// is returned.
func (p *Planner) Generate(ctx context.Context, q PlanQuery) (*Plan, error) {
	if err := q.validate(true); err != nil {
		return nil, err
	}

	items, err := p.source.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	pools, err := filterCatalog(items, q)
	if err != nil {
		return nil, err
	}

	var warnings []Warning
	if pools.regionRelaxed {
		warnings = append(warnings, Warning{Reason: ReasonRegionRelaxed})
	}

	selector := newVarietySelector(q, p.opts, pools)
	assignments, slotWarnings, err := selector.selectAll(q.Days, pools)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, slotWarnings...)

	return &Plan{
		Query:       q,
		Assignments: assignments,
		Nutrition:   aggregateNutrition(assignments, q.Days),
		Warnings:    warnings,
	}, nil
}

// Recommend runs the filter and scoring stages only, returning the top n
// eligible items sorted by score descending, ties broken by id ascending.
// It never pads the result with ineligible items.
func (p *Planner) Recommend(ctx context.Context, q PlanQuery, n int) ([]RecommendationEntry, error) {
	if err := q.validate(false); err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, &ValidationError{Field: "count", Reason: fmt.Sprintf("must be positive, got %d", n)}
	}

	items, err := p.source.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	pools, err := filterCatalog(items, q)
	if err != nil {
		return nil, err
	}

	entries := make([]RecommendationEntry, 0, len(pools.eligible))
	for _, item := range pools.eligible {
		score, reason := itemScore(item, q)
		entries = append(entries, RecommendationEntry{
			ItemID: item.ID,
			Name:   item.NameEnglish,
			Score:  score,
			Reason: reason,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].ItemID < entries[j].ItemID
	})

	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}
