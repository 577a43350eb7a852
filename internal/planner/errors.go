package planner

import (
	"fmt"

	"maternal-meal-planner/internal/catalog"
)

// ValidationError reports a malformed query. It is always returned to the
// caller and never retried internally.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// EmptyCatalogError means no item survived the hard trimester and diet
// constraints. Generation cannot proceed; there is no pool to relax into.
type EmptyCatalogError struct {
	Trimester int
	Diet      catalog.DietType
}

func (e *EmptyCatalogError) Error() string {
	return fmt.Sprintf("no catalog item is suitable for trimester %d with diet %q", e.Trimester, e.Diet)
}

// InsufficientCatalogError means a specific slot could not be filled even
// after relaxing the cooldown and drawing on the health-flagged fallback
// pool. The slot identity lets callers suggest loosening filters.
type InsufficientCatalogError struct {
	Slot MealSlot
}

func (e *InsufficientCatalogError) Error() string {
	return fmt.Sprintf("no catalog item can fill %s even after relaxation", e.Slot)
}
