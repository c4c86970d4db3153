package depreciation

import (
	"math"
	"strings"
)

// =============================================================================
// DEPRECIATION CATEGORIES - Qatar Tax Authority rates
// =============================================================================

// CategoryCode identifies a depreciation category.
type CategoryCode string

const (
	CategoryBuildings   CategoryCode = "BUILDINGS"
	CategoryMachinery   CategoryCode = "MACHINERY"
	CategoryVehicles    CategoryCode = "VEHICLES"
	CategoryFurniture   CategoryCode = "FURNITURE"
	CategoryITEquipment CategoryCode = "IT_EQUIPMENT"
	CategoryIntangibles CategoryCode = "INTANGIBLES"
)

// Category pairs an annual straight-line rate with its useful life.
// Intangibles carry 0/0: their life is set per asset.
type Category struct {
	Code            CategoryCode
	Name            string
	AnnualRate      int // percent per year
	UsefulLifeYears int
}

// UsefulLifeMonths is the category life in months, 0 for custom-life categories.
func (c Category) UsefulLifeMonths() int {
	return c.UsefulLifeYears * 12
}

// IsCustomLife reports whether the life must be supplied per asset.
func (c Category) IsCustomLife() bool {
	return c.UsefulLifeYears == 0
}

var categories = []Category{
	{Code: CategoryBuildings, Name: "Buildings", AnnualRate: 4, UsefulLifeYears: 25},
	{Code: CategoryMachinery, Name: "Machinery & Equipment", AnnualRate: 20, UsefulLifeYears: 5},
	{Code: CategoryVehicles, Name: "Vehicles", AnnualRate: 20, UsefulLifeYears: 5},
	{Code: CategoryFurniture, Name: "Furniture & Fixtures", AnnualRate: 20, UsefulLifeYears: 5},
	{Code: CategoryITEquipment, Name: "IT Equipment", AnnualRate: 20, UsefulLifeYears: 5},
	{Code: CategoryIntangibles, Name: "Intangible Assets", AnnualRate: 0, UsefulLifeYears: 0},
}

// Categories returns the category table in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryByCode looks up a category, case-insensitively.
func CategoryByCode(code string) (Category, bool) {
	for _, c := range categories {
		if strings.EqualFold(string(c.Code), code) {
			return c, true
		}
	}
	return Category{}, false
}

// RateFromUsefulLife converts a life in years to an annual rate:
// round(100 / years). Zero years yields 0.
func RateFromUsefulLife(years int) int {
	if years <= 0 {
		return 0
	}
	return int(math.Round(100 / float64(years)))
}

// UsefulLifeFromRate converts an annual rate to a life in years:
// round(100 / rate). A zero rate yields 0 (custom life).
func UsefulLifeFromRate(rate int) int {
	if rate <= 0 {
		return 0
	}
	return int(math.Round(100 / float64(rate)))
}
