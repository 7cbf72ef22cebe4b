package validation

import (
	"errors"
	"testing"

	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string  `json:"name" validate:"required"`
	Rate   float64 `json:"rate" validate:"fraction"`
	Tier   string  `json:"tier" validate:"oneof=low high"`
	Weight int     `json:"weight" validate:"gte=1"`
}

func TestValidator_Struct(t *testing.T) {
	v := NewValidator(FractionRule())

	require.NoError(t, v.Struct(sample{Name: "ok", Rate: 0.2, Tier: "low", Weight: 1}))

	err := v.Struct(sample{Rate: 1.0, Tier: "mid", Weight: 0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInvalidInputs))

	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "is required", verr.Fields["name"])
	assert.Equal(t, "must be a fraction in [0, 1)", verr.Fields["rate"])
	assert.Equal(t, "must be one of [low high]", verr.Fields["tier"])
	assert.Equal(t, "must be at least 1", verr.Fields["weight"])
}
