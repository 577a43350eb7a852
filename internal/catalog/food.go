package catalog

import (
	"fmt"
	"sort"
)

// Category classifies a food item into one of the fixed food groups.
type Category string

const (
	CategoryVegetables Category = "vegetables"
	CategoryDairy      Category = "dairy"
	CategoryGrains     Category = "grains"
	CategoryFruits     Category = "fruits"
	CategoryProteins   Category = "proteins"
	CategoryLentils    Category = "lentils"
	CategoryDryFruits  Category = "dry_fruits"
	CategoryTradition  Category = "traditional"
)

// Categories lists every valid category in a stable order.
var Categories = []Category{
	CategoryVegetables,
	CategoryDairy,
	CategoryGrains,
	CategoryFruits,
	CategoryProteins,
	CategoryLentils,
	CategoryDryFruits,
	CategoryTradition,
}

// DietType tags an item (or a query filter) with its dietary class.
// Vegan items satisfy vegetarian filters; vegetarian items do not satisfy
// vegan filters; non-vegetarian filters accept everything.
type DietType string

const (
	DietVegan         DietType = "vegan"
	DietVegetarian    DietType = "vegetarian"
	DietNonVegetarian DietType = "non_vegetarian"

	// DietAny is only valid as a query filter, never on an item.
	DietAny DietType = "any"
)

// Satisfies reports whether an item tagged d is admissible under the given
// query filter.
func (d DietType) Satisfies(filter DietType) bool {
	switch filter {
	case "", DietAny, DietNonVegetarian:
		return true
	case DietVegetarian:
		return d == DietVegan || d == DietVegetarian
	case DietVegan:
		return d == DietVegan
	}
	return false
}

// RegionAllIndia marks items common across regions; they match any region
// filter so that a regional preference never excludes pan-Indian staples.
const RegionAllIndia = "All India"

// knownNutrients is the closed nutrient vocabulary. Records carrying any
// other key are rejected at load time rather than failing inside scoring.
var knownNutrients = map[string]bool{
	"calories":      true,
	"protein":       true,
	"carbohydrates": true,
	"fat":           true,
	"fiber":         true,
	"iron":          true,
	"calcium":       true,
	"folic_acid":    true,
	"vitamin_a":     true,
	"vitamin_b6":    true,
	"vitamin_b12":   true,
	"vitamin_c":     true,
	"vitamin_d":     true,
	"vitamin_e":     true,
	"vitamin_k":     true,
	"omega3":        true,
	"sugar":         true,
	"sodium":        true,
}

// FoodItem is one immutable entry of the food catalog.
type FoodItem struct {
	ID              int64              `json:"id"`
	NameEnglish     string             `json:"name_english"`
	NameHindi       string             `json:"name_hindi,omitempty"`
	Category        Category           `json:"category"`
	Nutrients       map[string]float64 `json:"nutrients"`
	Trimesters      []int              `json:"trimesters"`
	Precautions     []string           `json:"precautions,omitempty"`
	Diet            DietType           `json:"diet"`
	Region          string             `json:"region,omitempty"`
	Benefits        string             `json:"benefits,omitempty"`
	PreparationTips string             `json:"preparation_tips,omitempty"`
}

// Nutrient returns the amount for a nutrient name, zero when absent.
func (f FoodItem) Nutrient(name string) float64 {
	return f.Nutrients[name]
}

// SuitableFor reports whether the item is suitable for the given trimester.
func (f FoodItem) SuitableFor(trimester int) bool {
	for _, t := range f.Trimesters {
		if t == trimester {
			return true
		}
	}
	return false
}

// MatchesRegion reports whether the item matches a region filter. Items
// tagged RegionAllIndia match every region.
func (f FoodItem) MatchesRegion(region string) bool {
	return f.Region == region || f.Region == RegionAllIndia
}

// HasPrecaution reports whether any of the given condition tags appears in
// the item's precaution set.
func (f FoodItem) HasPrecaution(conditions []string) bool {
	for _, c := range conditions {
		for _, p := range f.Precautions {
			if p == c {
				return true
			}
		}
	}
	return false
}

// Validate checks the item against the closed vocabularies. Invalid records
// are rejected when the catalog is loaded, never deep inside planning.
func (f FoodItem) Validate() error {
	if f.ID <= 0 {
		return fmt.Errorf("food item %q: id must be positive", f.NameEnglish)
	}
	if f.NameEnglish == "" {
		return fmt.Errorf("food item %d: english name is required", f.ID)
	}
	if !validCategory(f.Category) {
		return fmt.Errorf("food item %q: unknown category %q", f.NameEnglish, f.Category)
	}
	switch f.Diet {
	case DietVegan, DietVegetarian, DietNonVegetarian:
	default:
		return fmt.Errorf("food item %q: unknown diet type %q", f.NameEnglish, f.Diet)
	}
	if len(f.Trimesters) == 0 {
		return fmt.Errorf("food item %q: at least one suitable trimester is required", f.NameEnglish)
	}
	for _, t := range f.Trimesters {
		if t < 1 || t > 3 {
			return fmt.Errorf("food item %q: trimester %d out of range", f.NameEnglish, t)
		}
	}
	for name, amount := range f.Nutrients {
		if !knownNutrients[name] {
			return fmt.Errorf("food item %q: unknown nutrient %q", f.NameEnglish, name)
		}
		if amount < 0 {
			return fmt.Errorf("food item %q: nutrient %q is negative", f.NameEnglish, name)
		}
	}
	return nil
}

func validCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// NutrientNames returns the closed nutrient vocabulary in sorted order.
func NutrientNames() []string {
	names := make([]string, 0, len(knownNutrients))
	for name := range knownNutrients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
