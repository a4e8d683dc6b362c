// Package model defines the core domain types for the veld classification engine.
package model

// Category groups account codes into the fixed chart-of-accounts sections.
type Category string

const (
	// CategoryAsset covers bank, receivable and other asset accounts.
	CategoryAsset Category = "asset"
	// CategoryLiability covers loans, payables and other liability accounts.
	CategoryLiability Category = "liability"
	// CategoryEquity covers owner equity and retained earnings accounts.
	CategoryEquity Category = "equity"
	// CategoryRevenue covers income accounts.
	CategoryRevenue Category = "revenue"
	// CategoryCostOfSales covers direct cost accounts.
	CategoryCostOfSales Category = "cost_of_sales"
	// CategoryOperatingExpense covers general operating expense accounts.
	CategoryOperatingExpense Category = "operating_expense"
	// CategoryEmployeeCost covers salaries, wages and related expense accounts.
	CategoryEmployeeCost Category = "employee_cost"
)

// Categories lists every valid category in chart order.
func Categories() []Category {
	return []Category{
		CategoryAsset,
		CategoryLiability,
		CategoryEquity,
		CategoryRevenue,
		CategoryCostOfSales,
		CategoryOperatingExpense,
		CategoryEmployeeCost,
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryAsset, CategoryLiability, CategoryEquity, CategoryRevenue,
		CategoryCostOfSales, CategoryOperatingExpense, CategoryEmployeeCost:
		return true
	}
	return false
}

// AccountCode is one canonical entry in the chart of accounts.
// Codes are numeric strings in a reserved range owned by exactly one category.
type AccountCode struct {
	Code        string   `yaml:"code"`
	DisplayName string   `yaml:"name"`
	Category    Category `yaml:"category"`
	IsStandard  bool     `yaml:"standard,omitempty"`
}

// CodeRange is a half-open-by-convention inclusive numeric range [Lo, Hi]
// owned by a single category. Ranges are never reassigned after first use so
// historical classifications keep resolving to the same category.
type CodeRange struct {
	Category Category
	Lo       int
	Hi       int
}

// Contains reports whether the numeric code falls inside the range.
func (r CodeRange) Contains(code int) bool {
	return code >= r.Lo && code <= r.Hi
}
