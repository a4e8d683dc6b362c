package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldbooks/veld/internal/model"
)

func TestRegistry_Resolve(t *testing.T) {
	reg, err := NewWithDefaults()
	require.NoError(t, err)

	ac, err := reg.Resolve("8100")
	require.NoError(t, err)
	assert.Equal(t, "Employee Costs - Salaries", ac.DisplayName)
	assert.Equal(t, model.CategoryEmployeeCost, ac.Category)

	_, err = reg.Resolve("1234")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_Register(t *testing.T) {
	tests := []struct {
		name    string
		account model.AccountCode
		wantErr error
	}{
		{
			name:    "new code in owned range",
			account: model.AccountCode{Code: "6600", DisplayName: "Printing & Stationery", Category: model.CategoryOperatingExpense},
		},
		{
			name:    "duplicate code rejected",
			account: model.AccountCode{Code: "8100", DisplayName: "Salaries Again", Category: model.CategoryEmployeeCost},
			wantErr: ErrDuplicateCode,
		},
		{
			name: "revenue code claimed as liability rejected",
			// 4000 sits in the revenue range; registering it as a liability
			// is the classic two-numbering-schemes collision.
			account: model.AccountCode{Code: "4000", DisplayName: "Long-term Loan", Category: model.CategoryLiability},
			wantErr: ErrRangeConflict,
		},
		{
			name:    "code outside every reserved range rejected",
			account: model.AccountCode{Code: "150", DisplayName: "Mystery", Category: model.CategoryAsset},
			wantErr: ErrRangeConflict,
		},
		{
			name:    "non-numeric code rejected",
			account: model.AccountCode{Code: "ABC1", DisplayName: "Bad", Category: model.CategoryAsset},
			wantErr: ErrInvalidCode,
		},
		{
			name:    "unknown category rejected",
			account: model.AccountCode{Code: "1400", DisplayName: "Bad", Category: model.Category("fund")},
			wantErr: ErrInvalidCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := NewWithDefaults()
			require.NoError(t, err)
			before := len(reg.AllCodes())

			err = reg.Register(tt.account)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				// Failed registration leaves the registry unchanged.
				assert.Len(t, reg.AllCodes(), before)
				return
			}

			require.NoError(t, err)
			got, err := reg.Resolve(tt.account.Code)
			require.NoError(t, err)
			assert.Equal(t, tt.account.DisplayName, got.DisplayName)
		})
	}
}

func TestRegistry_AllCodesOrdered(t *testing.T) {
	reg, err := NewWithDefaults()
	require.NoError(t, err)

	codes := reg.AllCodes()
	require.NotEmpty(t, codes)
	for i := 1; i < len(codes); i++ {
		assert.Less(t, codes[i-1].Code, codes[i].Code)
	}
}

func TestRegistry_OverlappingRangesRejected(t *testing.T) {
	ranges := []model.CodeRange{
		{Category: model.CategoryRevenue, Lo: 4000, Hi: 4999},
		{Category: model.CategoryLiability, Lo: 4500, Hi: 5500},
	}

	_, err := New(ranges, nil)
	assert.ErrorIs(t, err, ErrRangeConflict)
}

func TestRegistry_CategoryOf(t *testing.T) {
	reg, err := NewWithDefaults()
	require.NoError(t, err)

	cat, err := reg.CategoryOf("4150")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryRevenue, cat)

	_, err = reg.CategoryOf("42")
	assert.ErrorIs(t, err, ErrRangeConflict)
}

func TestLoadChartFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chart.yaml")

	content := `version: 2
accounts:
  - code: "1100"
    name: Business Bank Account
    category: asset
    standard: true
  - code: "8100"
    name: Employee Costs
    category: employee_cost
    standard: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	chart, err := LoadChartFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, chart.Version)
	require.Len(t, chart.Accounts, 2)
	assert.Equal(t, model.CategoryAsset, chart.Accounts[0].Category)

	reg, err := New(DefaultRanges(), chart.Accounts)
	require.NoError(t, err)
	ac, err := reg.Resolve("8100")
	require.NoError(t, err)
	assert.Equal(t, "Employee Costs", ac.DisplayName)
}

func TestLoadChartFile_Invalid(t *testing.T) {
	dir := t.TempDir()

	missingVersion := filepath.Join(dir, "noversion.yaml")
	require.NoError(t, os.WriteFile(missingVersion, []byte("accounts:\n  - code: \"1100\"\n    name: Bank\n    category: asset\n"), 0o600))
	_, err := LoadChartFile(missingVersion)
	assert.Error(t, err)

	_, err = LoadChartFile(filepath.Join(dir, "absent.yaml"))
	assert.Error(t, err)
}
