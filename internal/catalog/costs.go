package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/apperr"
)

// EmploymentType selects which rate column applies to a role.
type EmploymentType string

const (
	Permanent  EmploymentType = "permanent"
	Contract   EmploymentType = "contract"
	Gig        EmploymentType = "gig"
	Outsourced EmploymentType = "outsourced"
)

// CostLookup prices one FTE per month. The engine treats it as an opaque
// pricing table and never derives salary bands itself.
type CostLookup interface {
	CostPerFTE(roleKey string, employmentType EmploymentType) (decimal.Decimal, error)
}

// RateTable is a flat monthly cost per FTE keyed by role and employment type.
type RateTable struct {
	Currency string
	rates    map[string]map[EmploymentType]decimal.Decimal
}

type rateDocument struct {
	Currency string                        `yaml:"currency"`
	Rates    map[string]map[string]float64 `yaml:"rates"`
}

func (d rateDocument) table() (*RateTable, error) {
	if len(d.Rates) == 0 {
		return nil, nil
	}
	t := NewRateTable(d.Currency)
	for role, cols := range d.Rates {
		for emp, amount := range cols {
			if amount <= 0 {
				return nil, apperr.Configuration("costs", "rate for %s/%s must be positive, got %v", role, emp, amount)
			}
			t.Set(role, EmploymentType(emp), decimal.NewFromFloat(amount))
		}
	}
	return t, nil
}

func NewRateTable(currency string) *RateTable {
	return &RateTable{
		Currency: currency,
		rates:    make(map[string]map[EmploymentType]decimal.Decimal),
	}
}

func (t *RateTable) Set(roleKey string, employmentType EmploymentType, monthly decimal.Decimal) {
	if t.rates[roleKey] == nil {
		t.rates[roleKey] = make(map[EmploymentType]decimal.Decimal)
	}
	t.rates[roleKey][employmentType] = monthly
}

// CostPerFTE returns the monthly rate for the role. A missing employment type
// falls back to the permanent column before failing.
func (t *RateTable) CostPerFTE(roleKey string, employmentType EmploymentType) (decimal.Decimal, error) {
	cols, ok := t.rates[roleKey]
	if !ok {
		return decimal.Zero, apperr.ConfigurationWrap(apperr.ErrMissingCostRate, "role_key", "no cost rates for role %q", roleKey)
	}
	if rate, ok := cols[employmentType]; ok {
		return rate, nil
	}
	if rate, ok := cols[Permanent]; ok {
		return rate, nil
	}
	return decimal.Zero, apperr.ConfigurationWrap(apperr.ErrMissingCostRate, "employment_type", "no %s rate for role %q", employmentType, roleKey)
}

// FlatRate prices every role identically. Useful when no table is configured.
type FlatRate decimal.Decimal

func (f FlatRate) CostPerFTE(string, EmploymentType) (decimal.Decimal, error) {
	return decimal.Decimal(f), nil
}
