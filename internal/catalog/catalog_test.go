package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/apperr"
)

const minimalCatalog = `
version: test
work_types:
  - id: alpha
    name: Alpha
    version: "1"
    productivity_rate: 1
    complexity_factor: 1
    variance_level: 0.1
    min_headcount_rule: 1
    min_headcount_base: 1
    risk_multiplier: 1
    role_key: alpha_role
costs:
  currency: USD
  rates:
    alpha_role: { permanent: 1000, gig: 800 }
`

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	list := c.List()
	require.NotEmpty(t, list)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].ID, list[i].ID, "list must be ordered by id")
	}

	general, err := c.Lookup("general")
	require.NoError(t, err)
	assert.Equal(t, 1.0, general.ComplexityFactor)
	assert.Equal(t, 1.0, general.ProductivityRate)

	require.NotNil(t, c.Costs())
	for _, wt := range list {
		_, err := c.Costs().CostPerFTE(wt.RoleKey, Permanent)
		assert.NoError(t, err, "work type %s must be priced", wt.ID)
		sum := wt.Mix.Routine + wt.Mix.Knowledge + wt.Mix.Operational + wt.Mix.Project
		assert.InDelta(t, 1.0, sum, 1e-9, "work mix for %s must sum to 1", wt.ID)
	}
}

func TestLookup_Unknown(t *testing.T) {
	c, err := Parse([]byte(minimalCatalog))
	require.NoError(t, err)

	_, err = c.Lookup("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrConfiguration))
	assert.True(t, errors.Is(err, apperr.ErrUnknownWorkType))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		errPart string
	}{
		{"empty", "   ", "payload is empty"},
		{"bad yaml", "work_types: [", "decode"},
		{"no entries", "version: x\nwork_types: []\n", "no work types"},
		{"invalid entry", "work_types:\n  - id: a\n    name: A\n", "invalid workload inputs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.payload))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestNew_Duplicate(t *testing.T) {
	wt := WorkTypeCoefficients{
		ID: "a", Name: "A", Version: "1",
		ProductivityRate: 1, ComplexityFactor: 1, VarianceLevel: 0.1,
		MinHeadcountRule: 1, MinHeadcountBase: 1, RiskMultiplier: 1, RoleKey: "r",
	}
	_, err := New("v", []WorkTypeCoefficients{wt, wt}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate work type")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalCatalog), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test", c.Version())
	assert.Len(t, c.List(), 1)

	_, err = LoadFile(filepath.Join(dir, "nope.yaml"))
	require.Error(t, err)
}

func TestRateTable_CostPerFTE(t *testing.T) {
	c, err := LoadReader(strings.NewReader(minimalCatalog))
	require.NoError(t, err)
	costs := c.Costs()
	require.NotNil(t, costs)
	assert.Equal(t, "USD", costs.Currency)

	gig, err := costs.CostPerFTE("alpha_role", Gig)
	require.NoError(t, err)
	assert.True(t, gig.Equal(decimal.NewFromInt(800)))

	// contract is not priced, so the permanent column applies
	contract, err := costs.CostPerFTE("alpha_role", Contract)
	require.NoError(t, err)
	assert.True(t, contract.Equal(decimal.NewFromInt(1000)))

	_, err = costs.CostPerFTE("ghost", Permanent)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrMissingCostRate))
}

func TestRateTable_RejectsNonPositive(t *testing.T) {
	payload := strings.Replace(minimalCatalog, "gig: 800", "gig: 0", 1)
	_, err := Parse([]byte(payload))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrConfiguration))
}

func TestFlatRate(t *testing.T) {
	var lookup CostLookup = FlatRate(decimal.NewFromInt(4200))
	v, err := lookup.CostPerFTE("anything", Outsourced)
	require.NoError(t, err)
	assert.True(t, v.Equal(decimal.NewFromInt(4200)))
}
