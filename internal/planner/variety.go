package planner

import (
	"math"
	"math/rand"

	"maternal-meal-planner/internal/catalog"
)

// Warning reasons attached to relaxation events. Relaxations are not errors;
// they are surfaced on the successful result.
const (
	ReasonCooldownRelaxed = "cooldown_relaxed"
	ReasonHealthFallback  = "health_fallback"
	ReasonRegionRelaxed   = "region_relaxed"
)

// Warning records a non-fatal relaxation. Slot is zero-valued for plan-level
// events such as region degradation.
type Warning struct {
	Slot   MealSlot `json:"slot"`
	Reason string   `json:"reason"`
}

// historyEntry is one past assignment in walk order; the cooldown window is
// the tail of this history.
type historyEntry struct {
	id       int64
	category catalog.Category
}

// varietySelector walks the day x slot grid in a fixed order and assigns one
// item per slot. It is a greedy, windowed process with seeded tie-breaking,
// not a global optimizer: output stays explainable and linear in the grid.
type varietySelector struct {
	opts      Options
	rng       *rand.Rand
	baseScore map[int64]float64

	history    []historyEntry
	usedCounts map[int64]int
	catCounts  map[catalog.Category]int
	assigned   int
	categories int // distinct categories across both pools
}

func newVarietySelector(q PlanQuery, opts Options, pools filterResult) *varietySelector {
	base := make(map[int64]float64, len(pools.eligible)+len(pools.fallback))
	cats := make(map[catalog.Category]bool)
	for _, pool := range [][]catalog.FoodItem{pools.eligible, pools.fallback} {
		for _, item := range pool {
			if _, ok := base[item.ID]; !ok {
				score, _ := itemScore(item, q)
				base[item.ID] = score
			}
			cats[item.Category] = true
		}
	}

	return &varietySelector{
		opts:       opts,
		rng:        q.rng(),
		baseScore:  base,
		usedCounts: make(map[int64]int),
		catCounts:  make(map[catalog.Category]int),
		categories: len(cats),
	}
}

// selectAll fills every slot of the grid, collecting relaxation warnings.
func (s *varietySelector) selectAll(days int, pools filterResult) ([]SlotAssignment, []Warning, error) {
	assignments := make([]SlotAssignment, 0, days*SlotsPerDay)
	var warnings []Warning

	for day := 0; day < days; day++ {
		for _, kind := range SlotOrder {
			slot := MealSlot{Day: day, Kind: kind}

			candidates := s.withoutCooldown(pools.eligible)
			if len(candidates) == 0 && len(pools.eligible) > 0 {
				// Cooldown exhausted the pool: allow repeats first.
				candidates = pools.eligible
				warnings = append(warnings, Warning{Slot: slot, Reason: ReasonCooldownRelaxed})
			}
			if len(candidates) == 0 && len(pools.fallback) > 0 {
				candidates = pools.fallback
				warnings = append(warnings, Warning{Slot: slot, Reason: ReasonHealthFallback})
			}
			if len(candidates) == 0 {
				return nil, nil, &InsufficientCatalogError{Slot: slot}
			}

			item := s.pickBest(candidates, kind)
			s.record(item)
			assignments = append(assignments, SlotAssignment{Slot: slot, ItemID: item.ID, Item: item})
		}
	}

	return assignments, warnings, nil
}

// withoutCooldown drops items whose id was assigned within the last W slots
// for their category.
func (s *varietySelector) withoutCooldown(pool []catalog.FoodItem) []catalog.FoodItem {
	start := len(s.history) - s.opts.CooldownWindow
	if start < 0 {
		start = 0
	}
	window := s.history[start:]

	var out []catalog.FoodItem
	for _, item := range pool {
		blocked := false
		for _, h := range window {
			if h.id == item.ID && h.category == item.Category {
				blocked = true
				break
			}
		}
		if !blocked {
			out = append(out, item)
		}
	}
	return out
}

// slotScore is the per-slot score: the context-free base plus the slot-kind
// category preference and the coverage bonus for under-represented groups.
func (s *varietySelector) slotScore(item catalog.FoodItem, kind SlotKind) float64 {
	score := s.baseScore[item.ID]
	if categoryPreferred(s.opts.SlotPreferences, kind, item.Category) {
		score += slotPreferenceBonus
	}
	if s.underRepresented(item.Category) {
		score += coverageBonus
	}
	return score
}

func (s *varietySelector) underRepresented(c catalog.Category) bool {
	if s.assigned == 0 || s.categories == 0 {
		return false
	}
	mean := float64(s.assigned) / float64(s.categories)
	return float64(s.catCounts[c]) < mean
}

// pickBest applies the full deterministic tie-break chain: highest score,
// then fewest prior uses, then lowest item id. The seeded generator decides
// only if distinct entries share an id, so identical seeds give identical
// plans even on degenerate catalogs.
func (s *varietySelector) pickBest(candidates []catalog.FoodItem, kind SlotKind) catalog.FoodItem {
	best := make([]catalog.FoodItem, 0, 4)
	bestScore := math.Inf(-1)
	for _, item := range candidates {
		score := s.slotScore(item, kind)
		switch {
		case score > bestScore:
			bestScore = score
			best = append(best[:0], item)
		case score == bestScore:
			best = append(best, item)
		}
	}

	if len(best) > 1 {
		minUsed := math.MaxInt
		for _, item := range best {
			if s.usedCounts[item.ID] < minUsed {
				minUsed = s.usedCounts[item.ID]
			}
		}
		filtered := best[:0]
		for _, item := range best {
			if s.usedCounts[item.ID] == minUsed {
				filtered = append(filtered, item)
			}
		}
		best = filtered
	}

	if len(best) > 1 {
		minID := best[0].ID
		for _, item := range best[1:] {
			if item.ID < minID {
				minID = item.ID
			}
		}
		filtered := best[:0]
		for _, item := range best {
			if item.ID == minID {
				filtered = append(filtered, item)
			}
		}
		best = filtered
	}

	if len(best) > 1 {
		return best[s.rng.Intn(len(best))]
	}
	return best[0]
}

func (s *varietySelector) record(item catalog.FoodItem) {
	s.history = append(s.history, historyEntry{id: item.ID, category: item.Category})
	s.usedCounts[item.ID]++
	s.catCounts[item.Category]++
	s.assigned++
}
