package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldbooks/veld/internal/model"
)

func mustMatcher(t *testing.T, rules []model.Rule) *Matcher {
	t.Helper()
	set, err := model.NewRuleSet(rules)
	require.NoError(t, err)
	m, err := New(set)
	require.NoError(t, err)
	return m
}

func TestMatcher_Strategies(t *testing.T) {
	tests := []struct {
		name        string
		strategy    model.MatchStrategy
		pattern     string
		description string
		wantMatch   bool
	}{
		{
			name:        "contains substring",
			strategy:    model.StrategyContains,
			pattern:     "IB TRANSFER TO",
			description: "IB TRANSFER TO *****2689327",
			wantMatch:   true,
		},
		{
			name:        "contains is case-insensitive",
			strategy:    model.StrategyContains,
			pattern:     "insurance",
			description: "MONTHLY INSURANCE PREMIUM",
			wantMatch:   true,
		},
		{
			name:        "contains no match",
			strategy:    model.StrategyContains,
			pattern:     "SALARY",
			description: "FUEL PURCHASE SHELL",
			wantMatch:   false,
		},
		{
			name:        "starts with prefix",
			strategy:    model.StrategyStartsWith,
			pattern:     "POS PURCHASE",
			description: "POS PURCHASE CHECKERS 123",
			wantMatch:   true,
		},
		{
			name:        "starts with mid-string does not match",
			strategy:    model.StrategyStartsWith,
			pattern:     "CHECKERS",
			description: "POS PURCHASE CHECKERS 123",
			wantMatch:   false,
		},
		{
			name:        "ends with suffix",
			strategy:    model.StrategyEndsWith,
			pattern:     "monthly fee",
			description: "ACCOUNT MONTHLY FEE",
			wantMatch:   true,
		},
		{
			name:        "equals after normalization",
			strategy:    model.StrategyEquals,
			pattern:     "interest received",
			description: "  INTEREST   RECEIVED ",
			wantMatch:   true,
		},
		{
			name:        "equals rejects superset",
			strategy:    model.StrategyEquals,
			pattern:     "INTEREST",
			description: "INTEREST RECEIVED",
			wantMatch:   false,
		},
		{
			name:        "regex searches rather than full-matches",
			strategy:    model.StrategyRegex,
			pattern:     `\b(FEE|SERVICE CHG)\b`,
			description: "CARD SERVICE CHG 12.50",
			wantMatch:   true,
		},
		{
			name:        "regex case-insensitive",
			strategy:    model.StrategyRegex,
			pattern:     `payroll`,
			description: "ACB CREDIT PAYROLL RUN 44",
			wantMatch:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustMatcher(t, []model.Rule{{
				Name:        "Under Test",
				Strategy:    tt.strategy,
				Pattern:     tt.pattern,
				AccountCode: "6400",
				Active:      true,
			}})

			result := m.Match(tt.description)
			if tt.wantMatch {
				assert.Equal(t, "6400", result.AccountCode)
				assert.Equal(t, "Under Test", result.RuleName)
				assert.False(t, result.IsFallback)
			} else {
				assert.True(t, result.IsFallback)
				assert.Empty(t, result.AccountCode)
			}
		})
	}
}

func TestMatcher_PriorityWins(t *testing.T) {
	// A literal employee name containing the INSURANCE keyword must beat the
	// generic insurance rule on priority, regardless of definition order.
	rules := []model.Rule{
		{Name: "Generic Insurance", Strategy: model.StrategyContains, Pattern: "INSURANCE", AccountCode: "8800", Priority: 5, Active: true},
		{Name: "Chauke Salary", Strategy: model.StrategyContains, Pattern: "INSURANCE CHAUKE", AccountCode: "8100", Priority: 10, Active: true},
	}

	result := mustMatcher(t, rules).Match("PAYMENT TO INSURANCE CHAUKE XG SALARIES")
	assert.Equal(t, "8100", result.AccountCode)
	assert.Equal(t, "Chauke Salary", result.RuleName)

	// Reversed collection order, same outcome.
	reversed := []model.Rule{rules[1], rules[0]}
	result = mustMatcher(t, reversed).Match("PAYMENT TO INSURANCE CHAUKE XG SALARIES")
	assert.Equal(t, "8100", result.AccountCode)
}

func TestMatcher_TieBreakByInsertionOrder(t *testing.T) {
	rules := []model.Rule{
		{Name: "First Defined", Strategy: model.StrategyContains, Pattern: "TRANSFER", AccountCode: "1100", Priority: 5, Active: true},
		{Name: "Second Defined", Strategy: model.StrategyContains, Pattern: "TRANSFER", AccountCode: "2400", Priority: 5, Active: true},
	}

	for i := 0; i < 50; i++ {
		result := mustMatcher(t, rules).Match("IB TRANSFER TO SAVINGS")
		require.Equal(t, "First Defined", result.RuleName)
	}
}

func TestMatcher_BankTransferScenario(t *testing.T) {
	m := mustMatcher(t, []model.Rule{{
		Name:        "Interbank Transfers",
		Strategy:    model.StrategyContains,
		Pattern:     "IB TRANSFER TO",
		AccountCode: "1100",
		Priority:    10,
		Active:      true,
	}})

	result := m.Match("IB TRANSFER TO *****2689327")
	assert.Equal(t, "1100", result.AccountCode)
	assert.False(t, result.IsFallback)
}

func TestMatcher_UnmatchedIsFallback(t *testing.T) {
	m := mustMatcher(t, []model.Rule{{
		Name:        "Salaries",
		Strategy:    model.StrategyContains,
		Pattern:     "SALARY",
		AccountCode: "8100",
		Active:      true,
	}})

	result := m.Match("XYZ UNKNOWN VENDOR 99213")
	assert.True(t, result.IsFallback)
	assert.Empty(t, result.AccountCode)
	assert.Empty(t, result.RuleName)
}

func TestMatcher_InactiveRulesSkipped(t *testing.T) {
	m := mustMatcher(t, []model.Rule{{
		Name:        "Disabled",
		Strategy:    model.StrategyContains,
		Pattern:     "SALARY",
		AccountCode: "8100",
		Active:      false,
	}})

	assert.True(t, m.Match("SALARY PAYMENT").IsFallback)
	assert.Zero(t, m.RuleCount())
}

func TestMatcher_Deterministic(t *testing.T) {
	rules := []model.Rule{
		{Name: "A", Strategy: model.StrategyContains, Pattern: "FUEL", AccountCode: "7200", Priority: 3, Active: true},
		{Name: "B", Strategy: model.StrategyRegex, Pattern: `SHELL|ENGEN|SASOL`, AccountCode: "7200", Priority: 7, Active: true},
		{Name: "C", Strategy: model.StrategyStartsWith, Pattern: "POS", AccountCode: "6100", Priority: 7, Active: true},
	}

	first := mustMatcher(t, rules).Match("POS FUEL SHELL N1 NORTH")
	for i := 0; i < 100; i++ {
		got := mustMatcher(t, rules).Match("POS FUEL SHELL N1 NORTH")
		require.Equal(t, first, got)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "payment to vendor", Normalize("  PAYMENT\t\tTO   Vendor "))
	assert.Equal(t, "", Normalize("   "))
}
