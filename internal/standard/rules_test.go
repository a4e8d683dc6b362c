package standard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldbooks/veld/internal/matcher"
	"github.com/veldbooks/veld/internal/model"
	"github.com/veldbooks/veld/internal/registry"
)

func TestRules_AllValid(t *testing.T) {
	reg, err := registry.NewWithDefaults()
	require.NoError(t, err)

	set, err := model.NewRuleSet(Rules())
	require.NoError(t, err)

	for _, rule := range set.Rules() {
		assert.Equal(t, model.OriginStandard, rule.Origin, "rule %q", rule.Name)
		assert.True(t, rule.Active, "rule %q", rule.Name)

		_, err := reg.Resolve(rule.AccountCode)
		assert.NoError(t, err, "rule %q targets unregistered code %s", rule.Name, rule.AccountCode)
	}
}

func TestRules_CommonStatements(t *testing.T) {
	set, err := model.NewRuleSet(Rules())
	require.NoError(t, err)
	m, err := matcher.New(set)
	require.NoError(t, err)

	tests := []struct {
		description string
		wantCode    string
	}{
		{"IB TRANSFER TO *****2689327", "1100"},
		{"SALARY PAYMENT M DLAMINI", "8100"},
		{"SARS PAYE 7031234567", "8300"},
		{"MONTHLY INSURANCE PREMIUM SANTAM", "8800"},
		{"ENGEN FOURWAYS FUEL", "7200"},
		{"ESKOM PREPAID ELECTRICITY", "6200"},
		{"CASHBUILD MIDRAND MATERIALS", "5100"},
		{"INTEREST RECEIVED", "4200"},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			result := m.Match(tt.description)
			assert.Equal(t, tt.wantCode, result.AccountCode)
			assert.False(t, result.IsFallback)
		})
	}
}
