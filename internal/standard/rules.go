// Package standard defines the built-in classification rules.
//
// These are the code-defined defaults reconciled against operator-edited
// rules at sync time. They are additive: a persisted rule with the same name
// always takes precedence. All matching behaviour lives in this data; adding
// or fixing a pattern never requires a code change elsewhere.
package standard

import "github.com/veldbooks/veld/internal/model"

// Rules returns the standard rule set in definition order. Definition order
// is the tie-break between rules of equal priority, so more specific rules
// are listed first within each priority band.
func Rules() []model.Rule {
	rules := []model.Rule{
		// Transfers and bank movements - highest priority so internal
		// movements never land in an expense account.
		{
			Name:        "Interbank Transfers",
			Description: "Transfers between own accounts via internet banking",
			Strategy:    model.StrategyContains,
			Pattern:     "IB TRANSFER TO",
			AccountCode: "1100",
			Priority:    100,
			Confidence:  0.95,
		},
		{
			Name:        "Incoming Transfers",
			Description: "Transfers received from own accounts",
			Strategy:    model.StrategyContains,
			Pattern:     "IB TRANSFER FROM",
			AccountCode: "1100",
			Priority:    100,
			Confidence:  0.95,
		},
		{
			Name:        "Loan Repayments",
			Description: "Instalments against the long-term loan",
			Strategy:    model.StrategyRegex,
			Pattern:     `\b(LOAN (REPAYMENT|INSTALMENT)|BOND PAYMENT)\b`,
			AccountCode: "2400",
			Priority:    95,
			Confidence:  0.90,
		},

		// Income.
		{
			Name:        "Customer Payments",
			Description: "Payments received from customers",
			Strategy:    model.StrategyRegex,
			Pattern:     `\b(PAYMENT FROM|INVOICE|ACB CREDIT)\b`,
			AccountCode: "4000",
			Priority:    85,
			Confidence:  0.80,
		},
		{
			Name:        "Interest Received",
			Description: "Credit interest on the bank account",
			Strategy:    model.StrategyContains,
			Pattern:     "INTEREST RECEIVED",
			AccountCode: "4200",
			Priority:    90,
			Confidence:  0.95,
		},

		// Employee costs - beat the generic expense keywords below.
		{
			Name:        "Salary Payments",
			Description: "Monthly salary runs",
			Strategy:    model.StrategyRegex,
			Pattern:     `\b(SALARY|SALARIES|PAYROLL)\b`,
			AccountCode: "8100",
			Priority:    80,
			Confidence:  0.90,
		},
		{
			Name:        "Wage Payments",
			Description: "Weekly and casual wages",
			Strategy:    model.StrategyContains,
			Pattern:     "WAGES",
			AccountCode: "8200",
			Priority:    80,
			Confidence:  0.90,
		},
		{
			Name:        "Statutory Payments",
			Description: "PAYE, UIF and SDL payments to SARS",
			Strategy:    model.StrategyRegex,
			Pattern:     `\b(SARS|PAYE|UIF|SDL)\b`,
			AccountCode: "8300",
			Priority:    85,
			Confidence:  0.95,
		},

		// Operating expenses.
		{
			Name:        "Insurance Premiums",
			Description: "Short-term insurance premiums",
			Strategy:    model.StrategyContains,
			Pattern:     "INSURANCE",
			AccountCode: "8800",
			Priority:    50,
			Confidence:  0.80,
		},
		{
			Name:        "Security Services",
			Description: "Armed response and monitoring",
			Strategy:    model.StrategyRegex,
			Pattern:     `\b(ADT|SECURITY|ARMED RESPONSE)\b`,
			AccountCode: "8900",
			Priority:    50,
			Confidence:  0.80,
		},
		{
			Name:        "Rent",
			Description: "Premises rental",
			Strategy:    model.StrategyContains,
			Pattern:     "RENT",
			AccountCode: "6100",
			Priority:    45,
			Confidence:  0.75,
		},
		{
			Name:        "Municipal Utilities",
			Description: "Electricity, water and rates",
			Strategy:    model.StrategyRegex,
			Pattern:     `\b(ESKOM|MUNICIPALITY|ELECTRICITY|WATER & RATES)\b`,
			AccountCode: "6200",
			Priority:    50,
			Confidence:  0.85,
		},
		{
			Name:        "Telephone & Internet",
			Description: "Telco and ISP debit orders",
			Strategy:    model.StrategyRegex,
			Pattern:     `\b(VODACOM|MTN|TELKOM|AFRIHOST|FIBRE)\b`,
			AccountCode: "6300",
			Priority:    50,
			Confidence:  0.85,
		},
		{
			Name:        "Bank Charges",
			Description: "Account fees and service charges",
			Strategy:    model.StrategyRegex,
			Pattern:     `\b(MONTHLY FEE|SERVICE FEE|BANK CHARGES|FEES?)\b`,
			AccountCode: "6400",
			Priority:    40,
			Confidence:  0.80,
		},
		{
			Name:        "Fuel",
			Description: "Fuel purchases at garages",
			Strategy:    model.StrategyRegex,
			Pattern:     `\b(SHELL|ENGEN|SASOL|BP|CALTEX|TOTAL GARAGE|FUEL)\b`,
			AccountCode: "7200",
			Priority:    55,
			Confidence:  0.85,
		},
		{
			Name:        "Vehicle Expenses",
			Description: "Vehicle maintenance, tracking and licensing",
			Strategy:    model.StrategyRegex,
			Pattern:     `\b(TRACKER|LICENCE RENEWAL|TYRES|MIDAS)\b`,
			AccountCode: "7100",
			Priority:    50,
			Confidence:  0.80,
		},
		{
			Name:        "Materials Purchases",
			Description: "Builders and hardware suppliers",
			Strategy:    model.StrategyRegex,
			Pattern:     `\b(BUILDERS|CASHBUILD|HARDWARE)\b`,
			AccountCode: "5100",
			Priority:    55,
			Confidence:  0.85,
		},
	}

	for i := range rules {
		rules[i].Origin = model.OriginStandard
		rules[i].Active = true
	}
	return rules
}
