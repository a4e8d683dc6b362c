package registry

import "github.com/veldbooks/veld/internal/model"

// DefaultRanges returns the reserved numeric span each category owns.
// Operating expenses own two spans; the 8000-8499 block between them is
// reserved for employee costs.
func DefaultRanges() []model.CodeRange {
	return []model.CodeRange{
		{Category: model.CategoryAsset, Lo: 1000, Hi: 1999},
		{Category: model.CategoryLiability, Lo: 2000, Hi: 2999},
		{Category: model.CategoryEquity, Lo: 3000, Hi: 3999},
		{Category: model.CategoryRevenue, Lo: 4000, Hi: 4999},
		{Category: model.CategoryCostOfSales, Lo: 5000, Hi: 5999},
		{Category: model.CategoryOperatingExpense, Lo: 6000, Hi: 7999},
		{Category: model.CategoryEmployeeCost, Lo: 8000, Hi: 8499},
		{Category: model.CategoryOperatingExpense, Lo: 8500, Hi: 9999},
	}
}

// DefaultChart returns the built-in canonical chart of accounts.
func DefaultChart() []model.AccountCode {
	return []model.AccountCode{
		{Code: "1100", DisplayName: "Business Bank Account", Category: model.CategoryAsset, IsStandard: true},
		{Code: "1200", DisplayName: "Accounts Receivable", Category: model.CategoryAsset, IsStandard: true},
		{Code: "1300", DisplayName: "Petty Cash", Category: model.CategoryAsset, IsStandard: true},
		{Code: "2100", DisplayName: "Accounts Payable", Category: model.CategoryLiability, IsStandard: true},
		{Code: "2400", DisplayName: "Long-term Loan", Category: model.CategoryLiability, IsStandard: true},
		{Code: "2500", DisplayName: "Credit Card", Category: model.CategoryLiability, IsStandard: true},
		{Code: "3100", DisplayName: "Owner's Equity", Category: model.CategoryEquity, IsStandard: true},
		{Code: "3200", DisplayName: "Owner's Drawings", Category: model.CategoryEquity, IsStandard: true},
		{Code: "4000", DisplayName: "Sales Revenue", Category: model.CategoryRevenue, IsStandard: true},
		{Code: "4200", DisplayName: "Interest Received", Category: model.CategoryRevenue, IsStandard: true},
		{Code: "4300", DisplayName: "Other Income", Category: model.CategoryRevenue, IsStandard: true},
		{Code: "5100", DisplayName: "Materials & Supplies", Category: model.CategoryCostOfSales, IsStandard: true},
		{Code: "5200", DisplayName: "Subcontractors", Category: model.CategoryCostOfSales, IsStandard: true},
		{Code: "6100", DisplayName: "Rent", Category: model.CategoryOperatingExpense, IsStandard: true},
		{Code: "6200", DisplayName: "Utilities", Category: model.CategoryOperatingExpense, IsStandard: true},
		{Code: "6300", DisplayName: "Telephone & Internet", Category: model.CategoryOperatingExpense, IsStandard: true},
		{Code: "6400", DisplayName: "Bank Charges & Fees", Category: model.CategoryOperatingExpense, IsStandard: true},
		{Code: "6500", DisplayName: "Accounting & Professional Fees", Category: model.CategoryOperatingExpense, IsStandard: true},
		{Code: "7100", DisplayName: "Motor Vehicle Expenses", Category: model.CategoryOperatingExpense, IsStandard: true},
		{Code: "7200", DisplayName: "Fuel", Category: model.CategoryOperatingExpense, IsStandard: true},
		{Code: "8100", DisplayName: "Employee Costs - Salaries", Category: model.CategoryEmployeeCost, IsStandard: true},
		{Code: "8200", DisplayName: "Employee Costs - Wages", Category: model.CategoryEmployeeCost, IsStandard: true},
		{Code: "8300", DisplayName: "Statutory Deductions", Category: model.CategoryEmployeeCost, IsStandard: true},
		{Code: "8800", DisplayName: "Insurance", Category: model.CategoryOperatingExpense, IsStandard: true},
		{Code: "8900", DisplayName: "Security", Category: model.CategoryOperatingExpense, IsStandard: true},
		{Code: "9900", DisplayName: "Suspense - Unclassified", Category: model.CategoryOperatingExpense, IsStandard: true},
	}
}
