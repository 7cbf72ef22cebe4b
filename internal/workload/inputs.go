package workload

import (
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/apperr"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/catalog"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/validation"
)

type Complexity string

const (
	Simple        Complexity = "simple"
	Normal        Complexity = "normal"
	Complex       Complexity = "complex"
	HighlyComplex Complexity = "highly_complex"
)

type ServiceLevel string

const (
	BusinessHours ServiceLevel = "business_hours"
	Extended      ServiceLevel = "extended"
	RoundTheClock ServiceLevel = "round_the_clock"
)

type AutomationLevel string

const (
	NoAutomation      AutomationLevel = "none"
	PartialAutomation AutomationLevel = "partial"
	HighAutomation    AutomationLevel = "high"
)

// TeamStability is the turnover tier of the team.
type TeamStability string

const (
	Stable   TeamStability = "stable"
	Moderate TeamStability = "moderate"
	Volatile TeamStability = "volatile"
)

type OvertimeFrequency string

const (
	Never      OvertimeFrequency = "never"
	Occasional OvertimeFrequency = "occasional"
	Frequent   OvertimeFrequency = "frequent"
)

// Priority records whether the requester leans toward lower cost or faster delivery.
type Priority string

const (
	PriorityCost     Priority = "cost"
	PriorityBalanced Priority = "balanced"
	PrioritySpeed    Priority = "speed"
)

// Range3 is a min/typical/max triple decoded from a range answer code.
type Range3 struct {
	Min     float64 `json:"min"`
	Typical float64 `json:"typical"`
	Max     float64 `json:"max"`
}

func (r Range3) IsPoint() bool {
	return r.Min == r.Max
}

// Inputs is the fully defaulted, immutable snapshot the engine sizes one
// sub-function against. Build it with Answers.Resolve.
type Inputs struct {
	WorkTypeID           string                 `json:"work_type" validate:"required"`
	Volume               Range3                 `json:"volume"`
	ProductivityRate     float64                `json:"productivity_rate" validate:"gt=0"`
	ProductivityGood     float64                `json:"productivity_good" validate:"fraction"`
	ProductivityBad      float64                `json:"productivity_bad" validate:"fraction"`
	EmployeesSupported   int                    `json:"employees_supported" validate:"gte=0"`
	TransactionsPerMonth int                    `json:"transactions_per_month" validate:"gte=0"`
	Sites                int                    `json:"sites" validate:"gte=0"`
	Timezones            int                    `json:"timezones" validate:"gte=1"`
	Complexity           Complexity             `json:"complexity" validate:"oneof=simple normal complex highly_complex"`
	ServiceLevel         ServiceLevel           `json:"service_level" validate:"oneof=business_hours extended round_the_clock"`
	AutomationLevel      AutomationLevel        `json:"automation_level" validate:"oneof=none partial high"`
	AbsenteeismRate      float64                `json:"absenteeism_rate" validate:"fraction"`
	RampUpWeeks          float64                `json:"ramp_up_weeks" validate:"gte=0"`
	TeamStability        TeamStability          `json:"team_stability" validate:"oneof=stable moderate volatile"`
	OvertimeFrequency    OvertimeFrequency      `json:"overtime_frequency" validate:"oneof=never occasional frequent"`
	TargetDeadlineDays   float64                `json:"target_deadline_days" validate:"gte=0"`
	AcceptableRisk       float64                `json:"acceptable_risk" validate:"gte=0,lte=100"`
	Priority             Priority               `json:"priority" validate:"oneof=cost balanced speed"`
	Budget               float64                `json:"budget" validate:"gte=0"`
	RoleKey              string                 `json:"role_key" validate:"required"`
	EmploymentType       catalog.EmploymentType `json:"employment_type" validate:"oneof=permanent contract gig outsourced"`
	Mix                  catalog.WorkMix        `json:"mix"`
}

var inputsValidator = validation.NewValidator(validation.FractionRule())

// Validate checks every field and the volume triple ordering. It returns an
// *apperr.ValidationError listing all offending fields.
func (in Inputs) Validate() error {
	err := inputsValidator.Struct(in)
	verr, ok := err.(*apperr.ValidationError)
	if err != nil && !ok {
		return err
	}
	if verr == nil {
		verr = apperr.NewValidationError()
	}

	v := in.Volume
	if v.Min < 0 || v.Min > v.Typical || v.Typical > v.Max {
		verr.Add("volume", "must satisfy 0 <= min <= typical <= max")
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}
